package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner of sqlitetour.
func asciiArtTpl() string {
	asciiArt := `
   _____ ____    __    _ __          ______
  / ___// __ \  / /   (_) /____     /_  __/___  __  _______
  \__ \/ / / / / /   / / __/ _ \     / / / __ \/ / / / ___/
 ___/ / /_/ / / /___/ / /_/  __/    / / / /_/ / /_/ / /
/____/\___\_\/_____/_/\__/\___/    /_/  \____/\__,_/_/
%s ` + Version + `
Calling the SQLite C API from Go, one handle at a time`

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// TourVersion returns the version banner of the sqlitetour CLI.
func TourVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Tour")
}

// BenchVersion returns the version banner of sqlitetourbench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}
