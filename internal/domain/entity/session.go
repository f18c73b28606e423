package entity

// DashboardSession is the signed identity carried by the dashboard cookie
type DashboardSession struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	HasRole  bool   `json:"has_role"`
	Exp      int64  `json:"exp"`
}

// Actor returns the session as an operation actor
func (s *DashboardSession) Actor() Actor {
	name := s.Username
	if name == "" {
		name = "Dashboard"
	}
	return Actor{ID: s.UserID, Name: name}
}
