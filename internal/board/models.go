package board

import "time"

const (
	noticeTimeFormat  = "2006-01-02 15:04"
	messageDateFormat = "2006-01-02"
)

// Notice is a GP announcement visible to the beneficiary.
type Notice struct {
	ID          int64
	PublishTime time.Time
	Content     string
}

// NoticeView is the wire shape with the publish time pre-formatted.
type NoticeView struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	PublishTime string `json:"publish_time"`
}

func (n Notice) View() NoticeView {
	return NoticeView{
		ID:          n.ID,
		Content:     n.Content,
		PublishTime: n.PublishTime.Format(noticeTimeFormat),
	}
}

// Message is a beneficiary note to the GP, optionally answered in place.
type Message struct {
	ID          int64
	CreatedDate time.Time
	Content     string
	Reply       *string
}

// MessageView is the wire shape with the creation date pre-formatted.
type MessageView struct {
	ID          int64   `json:"id"`
	CreatedDate string  `json:"created_date"`
	Content     string  `json:"content"`
	Reply       *string `json:"reply"`
}

func (m Message) View() MessageView {
	return MessageView{
		ID:          m.ID,
		CreatedDate: m.CreatedDate.Format(messageDateFormat),
		Content:     m.Content,
		Reply:       m.Reply,
	}
}
