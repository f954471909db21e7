package gateway

// Dispatcher is the interface services use to push events to connected
// WebSocket clients. The concrete Manager implements it.
type Dispatcher interface {
	DispatchToChannel(channelID int64, event string, data any)
	DispatchToUser(userID int64, event string, data any)
	DispatchToChannelExcept(channelID int64, exceptUserID int64, event string, data any)
	SubscribeToChannel(userID, channelID int64)
	UnsubscribeFromChannel(userID, channelID int64)
}
