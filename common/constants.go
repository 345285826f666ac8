package common

const (
	// AppName is the name of the application
	AppName = "court-search-service"
)
