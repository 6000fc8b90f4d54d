package types

import "fmt"

type Credentials struct {
	Login    string
	Password string
}

func (c Credentials) String() string {
	masked := ""
	if c.Password != "" {
		masked = "********"
	}
	return fmt.Sprintf("{Login:%s Password:%s}", c.Login, masked)
}

type TableRow struct {
	Index int
	Cells []string
}
