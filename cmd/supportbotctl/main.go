// Command supportbotctl is a terminal chat client for the support responder.
// It logs in (or registers) over HTTP, opens the websocket, sends stdin
// lines as utterances and prints the bot's replies.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MonikaDutta279/ChatBot-for-Customer-Support/internal/domain"
)

// Client represents a chat client.
type Client struct {
	conn *websocket.Conn
	done chan struct{}
}

// authenticate logs in, falling back to registration for an unknown email,
// and returns the session token.
func authenticate(baseURL, email, password string, register bool) (string, error) {
	path := "/v1/auth/login"
	if register {
		path = "/v1/auth/register"
	}

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if !register && resp.StatusCode == http.StatusUnauthorized {
		fmt.Println("Unknown account, registering...")
		return authenticate(baseURL, email, password, true)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("auth failed (%d): %s", resp.StatusCode, errResp.Error)
	}

	var authResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}
	return authResp.Token, nil
}

// NewClient connects to the websocket endpoint.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &Client{conn: conn, done: make(chan struct{})}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}

// SendHello presents the session token and waits for hello_ack.
func (c *Client) SendHello(token string) (string, error) {
	msg := domain.HelloMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeHello, Ts: time.Now().UnixMilli()},
		Token:       token,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return "", fmt.Errorf("write hello: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("read hello_ack: %w", err)
	}

	var base domain.BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return "", fmt.Errorf("unmarshal hello_ack: %w", err)
	}

	if base.Type == domain.TypeError {
		var errMsg domain.ErrorMessage
		json.Unmarshal(data, &errMsg)
		return "", fmt.Errorf("hello failed: %s - %s", errMsg.Code, errMsg.Message)
	}
	if base.Type != domain.TypeHelloAck {
		return "", fmt.Errorf("expected hello_ack, got: %s", base.Type)
	}

	var ack domain.HelloAckMessage
	json.Unmarshal(data, &ack)
	return ack.Name, nil
}

// SendMessage sends one utterance.
func (c *Client) SendMessage(content string) error {
	return c.conn.WriteJSON(domain.UserMessage{
		BaseMessage: domain.BaseMessage{Type: domain.TypeUserMessage, Ts: time.Now().UnixMilli()},
		Content:     content,
	})
}

// ReadMessages reads and prints messages from the server. Bot replies ring
// the terminal bell.
func (c *Client) ReadMessages() {
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("Read error: %v", err)
				}
				return
			}

			var base domain.BaseMessage
			if err := json.Unmarshal(data, &base); err != nil {
				log.Printf("Unmarshal error: %v", err)
				continue
			}

			switch base.Type {
			case domain.TypeMessage:
				var msg domain.ChatMessage
				json.Unmarshal(data, &msg)
				fmt.Printf("\n[%s] %s\n> ", msg.Role, msg.Content)
			case domain.TypeNotify:
				// Terminal bell as the audio cue.
				fmt.Print("\a")
			case domain.TypeError:
				var errMsg domain.ErrorMessage
				json.Unmarshal(data, &errMsg)
				fmt.Printf("\n[error] %s: %s\n> ", errMsg.Code, errMsg.Message)
			}
		}
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Responder base URL")
	email := flag.String("email", "", "Account email")
	password := flag.String("password", "", "Account password")
	flag.Parse()

	log.SetFlags(log.Ltime)

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	token, err := authenticate(*baseURL, *email, *password, false)
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}

	wsAddr := "ws" + strings.TrimPrefix(*baseURL, "http") + "/v1/ws"
	fmt.Printf("Connecting to %s...\n", wsAddr)

	client, err := NewClient(wsAddr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	name, err := client.SendHello(token)
	if err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	fmt.Printf("Hi %s! Type a message and press Enter to send.\n", name)
	fmt.Println("Commands: /quit to exit")

	go client.ReadMessages()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Print("> ")
	for {
		select {
		case <-interrupt:
			fmt.Println("\nBye!")
			return
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				fmt.Println("Bye!")
				return
			}
			if strings.TrimSpace(line) == "" {
				fmt.Print("> ")
				continue
			}
			if err := client.SendMessage(line); err != nil {
				log.Fatalf("Send failed: %v", err)
			}
		}
	}
}
