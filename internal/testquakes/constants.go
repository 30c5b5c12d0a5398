package testquakes

// File permission constants.
const (
	logFilePermission   = 0600
	directoryPermission = 0750
)

// usgsTimeLayout is the timestamp format the USGS CSV feeds use.
const usgsTimeLayout = "2006-01-02T15:04:05.000Z"

// Messy-mode injection rates, applied per row in this order. Each row gets
// at most one mutation, so the counts stay independently verifiable.
const (
	missingMagRate   = 0.020
	missingDepthRate = 0.040
	missingIDRate    = 0.050
	badTimeRate      = 0.055
	duplicateIDRate  = 0.061
)
