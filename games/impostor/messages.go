/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

// Inbound message types
const (
	TypeCreateLobby = "create_lobby"
	TypeJoinLobby   = "join_lobby"
	TypeStartGame   = "start_game"
	TypePlayerReady = "player_ready"
	TypeCastVote    = "cast_vote"
	TypeNextRound   = "next_round"
	TypeRestartGame = "restart_game"
	TypeLeaveLobby  = "leave_lobby"
	TypeCloseLobby  = "close_lobby"
	TypeKickPlayer  = "kick_player"
	TypeRejoinLobby = "rejoin_lobby"
)

// Outbound message types
const (
	TypeLobbyCreated  = "lobby_created"
	TypeLobbyJoined   = "lobby_joined"
	TypeLobbyUpdated  = "lobby_updated"
	TypeGameStarted   = "game_started"
	TypeRoleAssigned  = "role_assigned"
	TypeVotingStarted = "voting_started"
	TypeVoteUpdate    = "vote_update"
	TypeRoundEnded    = "round_ended"
	TypeGameEnded     = "game_ended"
	TypeLobbyClosed   = "lobby_closed"
	TypeKicked        = "kicked"
	TypeError         = "error"
)

// Messages coming from clients
type ClientMessage struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`   // create_lobby / join_lobby / rejoin_lobby
	Code   string `json:"code,omitempty"`   // join_lobby / rejoin_lobby
	Target string `json:"target,omitempty"` // cast_vote / kick_player
}

// SessionMessage acknowledges create, join and rejoin.
type SessionMessage struct {
	Type     string `json:"type"` // "lobby_created" or "lobby_joined"
	Code     string `json:"code"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// LobbyMessage carries a sanitized snapshot for every member.
type LobbyMessage struct {
	Type  string    `json:"type"`
	Lobby LobbyView `json:"lobby"`
}

// RoleMessage is only ever sent to the player it describes.
type RoleMessage struct {
	Type       string `json:"type"` // "role_assigned"
	IsImpostor bool   `json:"is_impostor"`
	SecretWord string `json:"secret_word,omitempty"`
}

// ResultMessage announces a resolved round.
type ResultMessage struct {
	Type   string     `json:"type"` // "round_ended" or "game_ended"
	Lobby  LobbyView  `json:"lobby"`
	Result GameResult `json:"result"`
}

// NoticeMessage is for terminal notifications ("lobby_closed", "kicked").
type NoticeMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorMessage is sent only to the connection whose action was rejected.
type ErrorMessage struct {
	Type         string `json:"type"` // "error"
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	ResetSession bool   `json:"reset_session,omitempty"`
}
