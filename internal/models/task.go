package models

// ProbeTask is one unit of monitoring work: check whether the store behind
// TopicID is open for online orders at OrderingURL. Tasks travel as message
// attributes on the probe queue; the message body is unused.
type ProbeTask struct {
	TopicID     string
	OrderingURL string
}
