package mail

type LeadAssignedData struct {
	AgentName string
	LeadName  string
	Email     string
	Phone     string
	Language  string
	Tag       string
	Message   string
}

type ReplyNotificationData struct {
	LeadName  string
	AgentName string
	Message   string
}
