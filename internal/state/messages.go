package state

import (
	"errors"

	"github.com/five82/todosync/internal/todoapi"
)

// Display strings shown by the UI.
const (
	MessageNoCompleted    = "完了済みのやることリストはありません。"
	MessageNoIncomplete   = "未完了のやることリストはありません。"
	MessageEmptyList      = "やることリストには何も登録されていません。"
	MessageUnreachable    = "ネットに接続がされていない、もしくはサーバーとの接続がされていません。ご確認ください。"
	MessageFieldsRequired = "タイトルと内容はどちらも必須項目です。"
	MessageBadResponse    = "サーバーから予期しない応答がありました。"
)

// Displayer is implemented by errors that carry text meant for the error
// banner, such as a server response body.
type Displayer interface {
	DisplayMessage() string
}

// Message is an error whose text is shown to the user as-is.
type Message string

func (m Message) Error() string { return string(m) }

// DisplayMessage implements Displayer.
func (m Message) DisplayMessage() string { return string(m) }

// EmptyMessageFor maps a route name to its empty-state message.
func EmptyMessageFor(route string) string {
	switch route {
	case RouteCompleted:
		return MessageNoCompleted
	case RouteIncomplete:
		return MessageNoIncomplete
	default:
		return MessageEmptyList
	}
}

// ErrorMessageFor returns the banner text for err. A reply the client could
// not use gets MessageBadResponse. Other errors without a displayable
// payload, including nil, mean the server could not be reached.
func ErrorMessageFor(err error) string {
	if err == nil {
		return MessageUnreachable
	}
	var d Displayer
	if errors.As(err, &d) {
		return d.DisplayMessage()
	}
	var bad *todoapi.BadResponseError
	if errors.As(err, &bad) {
		return MessageBadResponse
	}
	return MessageUnreachable
}
