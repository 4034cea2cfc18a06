package dashboard

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/apicentric/cloudcheck/internal/common"
)

// statusLandmark is the text the dashboard renders once its main view has
// mounted; the walk waits on it before touching anything.
const statusLandmark = "text=Simulator Status"

// sidebarWalk is the fixed navigation order of the demo, ending back on the
// dashboard. Each entry is a data-testid suffix.
var sidebarWalk = []string{
	"services",
	"iot",
	"marketplace",
	"recording",
	"ai-generator",
	"plugin-generator",
	"contract-testing",
	"code-generator",
	"logs",
	"configuration",
	"dashboard",
}

// Driver performs the scripted interaction sequence against an intercepted
// page. Steps are separated by fixed settle delays rather than polled
// conditions; the delays are a timing heuristic inherited from the demo
// script, generous enough for the mocked backend but not a synchronization
// guarantee.
type Driver struct {
	page   playwright.Page
	settle time.Duration
}

// NewDriver wraps a page. settle is the pause applied after each action;
// zero selects the default 2s.
func NewDriver(page playwright.Page, settle time.Duration) *Driver {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	return &Driver{page: page, settle: settle}
}

// Drive runs the whole sequence and returns the first error. Errors are not
// handled per step: the caller catches once at the top, captures a
// diagnostic screenshot, and abandons the rest of the walk.
func (d *Driver) Drive() error {
	logger := common.GetLogger().WithComponent("driver")

	logger.Info("waiting for dashboard content")
	if err := d.waitForLandmark(); err != nil {
		return fmt.Errorf("dashboard landmark: %w", err)
	}
	d.pause()

	logger.Info("hovering service card", "service", "users-service")
	if err := d.hoverServiceCard("users-service"); err != nil {
		return fmt.Errorf("hover service card: %w", err)
	}
	d.pauseFor(time.Second)

	for _, target := range sidebarWalk {
		logger.Info("navigating", "target", target)
		if err := d.clickSidebar(target); err != nil {
			return fmt.Errorf("sidebar %s: %w", target, err)
		}
		d.pause()
	}

	return nil
}

func (d *Driver) waitForLandmark() error {
	return d.page.Locator(statusLandmark).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
}

func (d *Driver) hoverServiceCard(name string) error {
	sel := fmt.Sprintf("[data-testid='service-card'][data-service-name='%s']", name)
	return d.page.Locator(sel).Hover()
}

func (d *Driver) clickSidebar(target string) error {
	sel := fmt.Sprintf("[data-testid='sidebar-%s']", target)
	return d.page.Locator(sel).Click()
}

func (d *Driver) pause() {
	d.page.WaitForTimeout(float64(d.settle.Milliseconds()))
}

func (d *Driver) pauseFor(dur time.Duration) {
	d.page.WaitForTimeout(float64(dur.Milliseconds()))
}

// CheckServiceCard reports whether the named fixture service card rendered.
// Used by the screenshot-only verification pass.
func CheckServiceCard(page playwright.Page, text string) bool {
	visible, err := page.Locator("text=" + text).First().IsVisible()
	return err == nil && visible
}
