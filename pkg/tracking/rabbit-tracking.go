package tracking

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/messaging"
)

type RabbitTracking struct {
	country    string
	connection *amqp.Connection
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		connection: nil,
		country:    country,
	}
	err := ret.connect(url)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, "global", messaging.TrackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.SendChange(t.connection, "global", messaging.TrackingTopic, data)
}

type BaseEvent struct {
	RequestId string `json:"request_id"`
	SessionId int    `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

func (t *RabbitTracking) baseEvent(event uint16, sessionId int) *BaseEvent {
	return &BaseEvent{
		RequestId: uuid.New().String(),
		Event:     event,
		SessionId: sessionId,
		Country:   t.country,
		Context:   "b2c",
	}
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId int, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	err := t.send(Session{
		BaseEvent:    t.baseEvent(0, sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           ip,
		PragmaHeader: r.Header.Get("Pragma"),
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

type ListingEventData struct {
	*BaseEvent
	Query           string       `json:"query,omitempty"`
	Category        string       `json:"category,omitempty"`
	SelectedFacets  []facet.Pair `json:"selected_facets,omitempty"`
	NumberOfResults int          `json:"noi"`
	Page            int          `json:"page"`
	Referer         string       `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackListing(sessionId int, event ListingEvent) {
	err := t.send(&ListingEventData{
		BaseEvent:       t.baseEvent(1, sessionId),
		Query:           event.Query,
		Category:        event.Category,
		SelectedFacets:  event.Selected,
		NumberOfResults: event.Total,
		Page:            event.Page,
		Referer:         event.Referer,
	})
	if err != nil {
		log.Println("Error sending listing event: ", err)
	}
}
