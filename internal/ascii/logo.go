package ascii

// Logo returns the pathaudit ascii logo
func Logo() string {
	return `
                  _    _                         _ _ _
  _ __   __ _ ___| |_ | |__   __ _ _   _  __| (_) |_
 | '_ \ / _' |_  _| ' \| '_ \ / _' | | | |/ _' | | __|
 | |_) | (_| || | | | | | | | (_| | |_| | (_| | | |_
 | .__/ \__,_||_| |_| |_|_| |_|\__,_|\__,_|\__,_|_|\__|
 |_|
                                        path auditor
`
}

// LogoHelp returns the logo, with help
func LogoHelp(s string) string {
	return Logo() + "\n\n" + s
}
