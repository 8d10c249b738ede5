package model

import "time"

// ChatRequest is one incoming chat message
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the reply to one chat message
type ChatResponse struct {
	Response  string         `json:"response"`
	SessionID string         `json:"session_id,omitempty"`
	Data      NavigationData `json:"data"`
}

// NavigationData carries the structured part of a reply for the map frontend.
// Code mirrors NavCode; older frontends read one or the other.
type NavigationData struct {
	NavCode           *int        `json:"nav_code"`
	Code              *int        `json:"code"`
	NavigationStarted bool        `json:"navigation_started"`
	NavigationJSON    interface{} `json:"navigation_json"`
	RoomFound         bool        `json:"room_found"`
	RoomData          *RoomRecord `json:"room_data"`
}

// NewRoomNavigationData fills navigation data for a resolved room
func NewRoomNavigationData(room *RoomRecord, started bool) NavigationData {
	code := room.Code
	mirror := room.Code
	return NavigationData{
		NavCode:           &code,
		Code:              &mirror,
		NavigationStarted: started,
		RoomFound:         true,
		RoomData:          room,
	}
}

// ServiceStats describes the loaded collaborators for health endpoints
type ServiceStats struct {
	ModelLoaded    bool `json:"model_loaded"`
	RoomsLoaded    int  `json:"rooms_loaded"`
	ActiveSessions int  `json:"active_sessions"`
}

// SessionSnapshot is a read-only view of one conversation session
type SessionSnapshot struct {
	SessionID    string      `json:"session_id"`
	State        string      `json:"state"`
	PendingRoom  string      `json:"pending_room,omitempty"`
	LastRoom     *RoomRecord `json:"last_room,omitempty"`
	History      string      `json:"history"`
	LastActivity time.Time   `json:"last_activity"`
}

// TurnRecord is the audit entry written for every handled turn
type TurnRecord struct {
	SessionID         string `db:"session_id"`
	Prompt            string `db:"prompt"`
	Response          string `db:"response"`
	Outcome           string `db:"outcome"`
	RoomKey           string `db:"room_key"`
	NavigationStarted bool   `db:"navigation_started"`
	ResponseTimeMs    int    `db:"response_time_ms"`
}
