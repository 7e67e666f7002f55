package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
}

// force the timezone to IST because the scan window and bare clock
// times are defined against the provider's local calendar, not
// whatever timezone the job happens to be deployed in
func Now() time.Time {
	return time.Now().In(Location)
}
