// Package playwright backs the resource hierarchy with playwright-go.
//
// The three tiers map onto Playwright objects as follows:
//
//   - Environment: the Playwright driver process (playwright.Run)
//   - Runtime: a launched browser (BrowserType.Launch)
//   - Session: a browser context with tracing (Browser.NewContext)
//
// Pass an Engine to factory.New:
//
//	f := factory.New(playwright.New(playwright.WithInstall(true)))
//	env, err := f.Environment(ctx)
//	rt, err := f.Runtime(ctx)
//	session, err := f.Session(ctx)
//	page, err := playwright.PageOf(session)
//	...
//	err = f.Close(ctx, session)
package playwright
