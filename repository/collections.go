package repository

const (
	UsersCollection         = "users"
	MonitoringCollection    = "monitoring_sessions"
	SessionDataCollection   = "session_data"
	TodosCollection         = "todos"
	LoginSessionsCollection = "login_sessions"
)
