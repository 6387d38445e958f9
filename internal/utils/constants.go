package utils

// Application constants
const (
	AppName    = "milsonresponse"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Incidents
	MaxIncidentPhotos = 3

	// Donations (minor currency units, kobo)
	MinDonationAmount = 100
	DonationCurrency  = "NGN"

	// Geospatial
	EarthRadiusKM   = 6371.0
	DefaultRadiusKM = 10.0
	MaxRadiusKM     = 100.0

	// Chat
	MaxChatMessageLength = 1000

	// File upload
	MaxPhotoSize = 5 * 1024 * 1024   // 5MB
	MaxVideoSize = 100 * 1024 * 1024 // 100MB
)

// HTTP status strings
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
