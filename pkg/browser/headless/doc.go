// Package headless implements browser.Host without a browser.
//
// A Page keeps a location, a history stack, two storage scopes and a
// recording beacon in memory, and lets callers drive the lifecycle signals
// explicitly:
//
//	page, _ := headless.New("https://site.example/a", headless.WithTitle("A"))
//	_ = senzor.New(page).Init(ctx, senzor.Config{WebID: "w1"})
//
//	page.Navigate("/b", "B") // ping for /a, then pageview for /b
//	page.Hide()
//	page.Show()
//	page.Close()
//
//	for _, p := range page.Beacons() {
//		fmt.Println(p.Type, p.Path, p.Duration)
//	}
//
// Listeners run synchronously on the calling goroutine.
package headless
