package cart

import "time"

// nowUnix is the RTC anchor clock; split out so tests can stub it.
var nowUnix = func() int64 { return time.Now().Unix() }
