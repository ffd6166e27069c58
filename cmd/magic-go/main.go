// Command magic-go prints the type of files, like file(1), using libmagic.
//
// Usage:
//
//	magic-go [flags] FILE...
//
// A FILE of "-" reads standard input. The exit status is 0 when every file was
// described, 1 when some file failed and 2 on usage or setup errors.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
