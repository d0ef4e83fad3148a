package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type leadNotificationData struct {
	Niche      string
	City       string
	LeadName   string
	LeadPhone  string
	LeadEmail  string
	Service    string
	Message    string
	ReceivedAt string
}

type outreachData struct {
	Niche     string
	City      string
	LeadCount int
}
