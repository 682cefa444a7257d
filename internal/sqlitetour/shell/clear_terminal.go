package shell

import (
	"io"
	"os/exec"
	"runtime"
)

// clearTerminal clears the terminal screen in supported operating systems.
func clearTerminal(w io.Writer) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin":
		cmd = exec.Command("clear")
	default:
		return
	}

	cmd.Stdout = w
	_ = cmd.Run()
}
