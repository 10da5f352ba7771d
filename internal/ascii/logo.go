package ascii

// Logo returns the abapscan ascii logo
func Logo() string {
	return `

     **             *******
    ****    **      **   **
   **  **   **__    **___** ____  ___ __ _ __ ___
  **____**  ** **   **     / ___|/ __/ _' | '_ \
 **      ** **__**  **     \___ \ (_| (_| | | | |
 **      ** **      **     |____/\___\__,_|_| |_|

        abapscan - ABAP sensitive SQL field scanner

`
}

// LogoHelp returns the logo, with help
func LogoHelp(s string) string {
	return Logo() + "\n\n" + s
}
