package dashboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"

	"github.com/apicentric/cloudcheck/internal/common"
)

// VideoFileName is the stable name the recorded demo is saved under.
const VideoFileName = "demo_video.webm"

// Options configures a browser-driven dashboard session.
type Options struct {
	// URL of the dashboard under test.
	URL string
	// VideoDir receives the recorded demo (RecordDemo only).
	VideoDir string
	// ScreenshotPath is where the verification screenshot lands
	// (VerifyDashboard only).
	ScreenshotPath string
	Headless       bool
}

// RecordDemo runs the full mocked sidebar walk while recording a video. The
// only fatal condition is failing to navigate at all; an interaction failure
// mid-walk produces a diagnostic screenshot and the video still ends up on
// disk. Browser, context and video resources are released on every exit
// path.
func RecordDemo(opts Options) error {
	logger := common.GetLogger().WithComponent("dashboard")

	if err := os.MkdirAll(opts.VideoDir, 0o755); err != nil {
		return fmt.Errorf("create video dir: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		RecordVideo: &playwright.RecordVideo{
			Dir:  opts.VideoDir,
			Size: &playwright.Size{Width: 1280, Height: 720},
		},
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		return fmt.Errorf("new context: %w", err)
	}
	contextClosed := false
	defer func() {
		if !contextClosed {
			_ = context.Close()
		}
	}()

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("new page: %w", err)
	}

	router := NewMockRouter()
	if err := RegisterDemoRoutes(router); err != nil {
		return err
	}
	if err := router.Install(page); err != nil {
		return fmt.Errorf("install routes: %w", err)
	}

	logger.Info("navigating to dashboard", "url", opts.URL)
	if _, err := page.Goto(opts.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", opts.URL, err)
	}

	// A failed walk is diagnostic, not fatal: grab a screenshot, keep the
	// partial video.
	if err := NewDriver(page, 0).Drive(); err != nil {
		logger.Error("interaction failed", "error", err)
		shot := filepath.Join(opts.VideoDir, "error.png")
		if _, serr := page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(shot),
		}); serr != nil {
			logger.Warn("diagnostic screenshot failed", "error", serr)
		}
	}

	video := page.Video()
	if err := context.Close(); err != nil {
		return fmt.Errorf("close context: %w", err)
	}
	contextClosed = true

	if video == nil {
		return nil
	}
	target := filepath.Join(opts.VideoDir, VideoFileName)
	if err := video.SaveAs(target); err != nil {
		return fmt.Errorf("save video: %w", err)
	}
	_ = video.Delete()
	logger.Info("demo video saved", "path", target)
	return nil
}

// VerifyDashboard is the screenshot-only pass: mock the load-time endpoints,
// wait for the status landmark, check a fixture service card rendered, and
// save a full-page screenshot. A missing landmark is not fatal; the
// screenshot is taken regardless so there is always an artifact to look at.
func VerifyDashboard(opts Options) error {
	logger := common.GetLogger().WithComponent("dashboard")

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("new page: %w", err)
	}

	router := NewMockRouter()
	if err := RegisterVerifyRoutes(router); err != nil {
		return err
	}
	if err := router.Install(page); err != nil {
		return fmt.Errorf("install routes: %w", err)
	}

	logger.Info("navigating to dashboard", "url", opts.URL)
	if _, err := page.Goto(opts.URL); err != nil {
		return fmt.Errorf("navigate to %s: %w", opts.URL, err)
	}

	if err := page.Locator(statusLandmark).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	}); err != nil {
		logger.Warn("dashboard landmark not found, capturing screenshot anyway", "error", err)
	} else {
		logger.Info("dashboard loaded")
	}

	if CheckServiceCard(page, "users-service") {
		logger.Info("service card visible", "service", "users-service")
	} else {
		logger.Warn("service card not visible", "service", "users-service")
	}

	if dir := filepath.Dir(opts.ScreenshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(opts.ScreenshotPath),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	logger.Info("screenshot saved", "path", opts.ScreenshotPath)
	return nil
}
