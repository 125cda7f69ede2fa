package utils

// Layouts accepted for timestamps coming from the backend. Flask's jsonify
// renders datetimes as RFC1123 ("Mon, 06 May 2024 00:00:00 GMT") while the
// container movement serializer uses isoformat().
const (
	ISO_DATE_LAYOUT          = "2006-01-02"
	ISO_LOCAL_LAYOUT         = "2006-01-02T15:04:05.999999999"
	ISO_LOCAL_SPACE_LAYOUT   = "2006-01-02 15:04:05.999999999"
	HTTP_DATE_LAYOUT         = "Mon, 02 Jan 2006 15:04:05 GMT"
	DATE_END_OF_DAY_FRACTION = 999
)
