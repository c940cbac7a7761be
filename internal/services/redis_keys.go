package services

const (
	KeyPlayerSession = "player:%s:session"
)
