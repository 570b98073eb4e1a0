package email

// GlobalEmailService is nil until InitEmailService runs; callers treat a nil
// service as "email disabled" rather than an error.
var GlobalEmailService *EmailService

func InitEmailService(apiKey string) error {
	service, err := NewEmailService(apiKey)
	if err != nil {
		return err
	}
	GlobalEmailService = service
	return nil
}
