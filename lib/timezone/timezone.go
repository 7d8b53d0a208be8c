package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Mexico_City")
	if err != nil {
		panic(err)
	}
}

// force the timezone to Mexico City because the platform and the people
// reading the spreadsheet live there; run stamps must not drift when the
// job runs from a server in another region
func Now() time.Time {
	return time.Now().In(Location)
}

const StampLayout = "2006-01-02 15:04:05"

// Stamp formats a time the way it appears in the sheet banner and the
// history log.
func Stamp(t time.Time) string {
	return t.In(Location).Format(StampLayout)
}
