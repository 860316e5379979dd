package log_test

import (
	"fmt"

	rlog "github.com/LerianStudio/lib-retry/retry/log"
)

func ExampleParseLevel() {
	level, err := rlog.ParseLevel("warning")

	fmt.Println(err == nil)
	fmt.Println(level.String())

	// Output:
	// true
	// warn
}
