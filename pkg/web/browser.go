package web

import (
	"os/exec"
	"runtime"
)

// openBrowser tries to open the default browser with the given URL. Failure
// is ignored; the URL is printed anyway.
func openBrowser(url string) {
	switch runtime.GOOS {
	case "linux":
		_ = exec.Command("xdg-open", url).Start()
	case "windows":
		_ = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		_ = exec.Command("open", url).Start()
	}
}
