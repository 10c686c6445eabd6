/******************************************************************************
 *
 *  Description :
 *    Package exposes info, warning and error loggers.
 *
 *****************************************************************************/
package logs

import (
	"io"
	"log"
	"strings"
)

var (
	Info *log.Logger
	Warn *log.Logger
	Err  *log.Logger
)

// Init initializes the loggers. The flags string is a comma-separated list
// of stdlib log flag names: datetime, date, time, microseconds, utc,
// longfile, shortfile, or stdFlags.
func Init(out io.Writer, flagsStr string) {
	flags := parseFlags(flagsStr)
	Info = log.New(out, "I", flags)
	Warn = log.New(out, "W", flags)
	Err = log.New(out, "E", flags)
}

func parseFlags(str string) int {
	var flags int
	for _, f := range strings.Split(str, ",") {
		switch strings.TrimSpace(f) {
		case "datetime":
			flags |= log.Ldate | log.Ltime
		case "date":
			flags |= log.Ldate
		case "time":
			flags |= log.Ltime
		case "microseconds":
			flags |= log.Lmicroseconds
		case "utc":
			flags |= log.LUTC
		case "longfile":
			flags |= log.Llongfile
		case "shortfile":
			flags |= log.Lshortfile
		case "stdFlags":
			flags |= log.LstdFlags
		}
	}
	if flags == 0 {
		flags = log.LstdFlags
	}
	return flags
}
