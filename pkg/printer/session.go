/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package printer

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	utilbackoff "github.com/hunter-stradley/vibe-print/pkg/utils/backoff"
)

const (
	DefaultMQTTPort = 8883

	mqttUsername  = "bblp"
	mqttKeepalive = 60 * time.Second

	// the printer answers a pushall within well under a second
	statusWait = 500 * time.Millisecond

	connectRetryInterval = 2 * time.Second

	subscriberQueueSize = 16
)

// ReportCallback receives each decoded status report.
type ReportCallback func(report map[string]interface{})

// subscriber decouples one callback from the receive path. Reports are
// handed to the dispatch goroutine through a bounded queue; when the
// queue is full the oldest report is dropped, since every report is a
// full snapshot.
type subscriber struct {
	queue chan map[string]interface{}
}

func newSubscriber(name string, cb ReportCallback) *subscriber {
	sub := &subscriber{queue: make(chan map[string]interface{}, subscriberQueueSize)}
	go func() {
		for report := range sub.queue {
			func() {
				defer func() {
					if r := recover(); r != nil {
						klog.Errorf("report callback %q panicked: %v", name, r)
					}
				}()
				cb(report)
			}()
		}
	}()
	return sub
}

// Session is the low-level MQTT link to one printer. The printer runs
// a TLS broker on port 8883 with a self-signed certificate; the access
// code is the password for the fixed "bblp" user.
type Session struct {
	host       string
	accessCode string
	serial     string
	port       int

	client mqtt.Client
	seq    int64

	mu          sync.Mutex
	connected   bool
	lastReport  map[string]interface{}
	subscribers map[string]*subscriber
}

func NewSession(host, accessCode, serial string, port int) *Session {
	if port <= 0 {
		port = DefaultMQTTPort
	}
	return &Session{
		host:        host,
		accessCode:  accessCode,
		serial:      serial,
		port:        port,
		subscribers: map[string]*subscriber{},
	}
}

func (s *Session) Host() string { return s.host }

func (s *Session) ReportTopic() string {
	return fmt.Sprintf("device/%s/report", s.serial)
}

func (s *Session) RequestTopic() string {
	return fmt.Sprintf("device/%s/request", s.serial)
}

func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected && s.client != nil && s.client.IsConnected()
}

// Connect dials the printer broker and subscribes to its report topic.
func (s *Session) Connect(timeout time.Duration) error {
	if s.host == "" || s.accessCode == "" {
		return commonerrors.NewBadRequest(
			"Printer IP and access code required. Set VIBE_PRINTER_HOST and VIBE_ACCESS_CODE environment variables.")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("ssl://%s:%d", s.host, s.port)).
		SetClientID(fmt.Sprintf("vibe-print-%d", time.Now().Unix())).
		SetUsername(mqttUsername).
		SetPassword(s.accessCode).
		SetProtocolVersion(4).
		SetKeepAlive(mqttKeepalive).
		SetTLSConfig(&tls.Config{InsecureSkipVerify: true}).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		klog.Infof("printer mqtt connection lost: %v", err)
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		s.mu.Lock()
		s.connected = true
		s.mu.Unlock()
		if token := client.Subscribe(s.ReportTopic(), 0, s.onMessage); token.Wait() && token.Error() != nil {
			klog.ErrorS(token.Error(), "failed to subscribe to report topic", "topic", s.ReportTopic())
		}
	})

	// Transient dial failures are retried within the caller's timeout;
	// bad credentials fail immediately.
	dial := func() error {
		client := mqtt.NewClient(opts)
		token := client.Connect()
		if !token.WaitTimeout(timeout) {
			client.Disconnect(0)
			return commonerrors.NewPrinterNotConnected("Connection timed out. Check IP address and access code.")
		}
		if err := token.Error(); err != nil {
			client.Disconnect(0)
			if strings.Contains(strings.ToLower(err.Error()), "password") {
				return utilbackoff.Permanent(
					commonerrors.NewPrinterNotConnected("Bad username or password (check access code)"))
			}
			return commonerrors.NewPrinterNotConnected(fmt.Sprintf("MQTT connection failed: %v", err))
		}
		s.mu.Lock()
		s.client = client
		s.connected = true
		s.mu.Unlock()
		return nil
	}
	if err := utilbackoff.Retry(dial, timeout, connectRetryInterval); err != nil {
		return err
	}
	klog.Infof("connected to printer %s (serial %s)", s.host, s.serial)
	return nil
}

// Disconnect closes the broker connection.
func (s *Session) Disconnect() {
	s.mu.Lock()
	client := s.client
	s.client = nil
	s.connected = false
	s.mu.Unlock()
	if client != nil {
		client.Disconnect(250)
	}
}

func (s *Session) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var report map[string]interface{}
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		// printers emit occasional non-JSON keepalive noise
		return
	}
	s.deliver(report)
}

// deliver caches the report and hands it to every subscriber queue. A
// slow subscriber only loses its own oldest reports; the receive path
// never blocks on a callback.
func (s *Session) deliver(report map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = report
	for _, sub := range s.subscribers {
		select {
		case sub.queue <- report:
		default:
			select {
			case <-sub.queue:
			default:
			}
			select {
			case sub.queue <- report:
			default:
			}
		}
	}
}

// RegisterCallback registers a named report callback, replacing any
// previous callback with the same name. Each callback runs on its own
// dispatch goroutine.
func (s *Session) RegisterCallback(name string, cb ReportCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.subscribers[name]; ok {
		close(old.queue)
	}
	s.subscribers[name] = newSubscriber(name, cb)
}

func (s *Session) UnregisterCallback(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subscribers[name]; ok {
		close(sub.queue)
		delete(s.subscribers, name)
	}
}

func (s *Session) nextSequenceID() string {
	return fmt.Sprintf("%d", atomic.AddInt64(&s.seq, 1))
}

// SendCommand publishes one command on the request topic. The payload
// shape is {<type>: {sequence_id, command, ...fields}}.
func (s *Session) SendCommand(commandType, command string, fields map[string]interface{}) error {
	s.mu.Lock()
	client := s.client
	connected := s.connected
	s.mu.Unlock()
	if !connected || client == nil {
		return commonerrors.NewPrinterNotConnected("not connected to printer")
	}

	body := map[string]interface{}{
		"sequence_id": s.nextSequenceID(),
		"command":     command,
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(map[string]interface{}{commandType: body})
	if err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to encode command: %v", err))
	}

	token := client.Publish(s.RequestTopic(), 1, false, payload)
	if token.Wait() && token.Error() != nil {
		klog.ErrorS(token.Error(), "failed to publish command", "command", command)
		return commonerrors.NewPrinterNotConnected(fmt.Sprintf("failed to send %s: %v", command, token.Error()))
	}
	return nil
}

// GetStatus requests a full status push and returns the latest report.
// The printer answers asynchronously, so this waits briefly and returns
// whatever report is cached by then.
func (s *Session) GetStatus() (map[string]interface{}, error) {
	if err := s.SendCommand("pushing", "pushall", nil); err != nil {
		return nil, err
	}
	time.Sleep(statusWait)
	return s.LastReport(), nil
}

// LastReport returns the most recent raw report, or nil.
func (s *Session) LastReport() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}
