package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ashev87/safechat/client"
)

// printListener renders client events to stdout.
type printListener struct {
	c *client.Client
}

func (p *printListener) OnConnected()                {}
func (p *printListener) OnDisconnected(reason string) {
	fmt.Printf("* disconnected: %s\n", reason)
}

func (p *printListener) OnMessage(msg client.Message) {
	name := msg.SenderDisplayName
	if name == "" {
		name = msg.SenderMemberID
	}
	fmt.Printf("[%s] %s: %s\n", msg.ServerTimestamp.Format("15:04:05"), name, msg.Text)
}

func (p *printListener) OnUndeliverable(senderMemberID, messageID string) {
	fmt.Printf("! message from %s could not be verified and was not displayed\n", senderMemberID)
}

func (p *printListener) OnMemberJoined(peer client.Peer) {
	fmt.Printf("* %s joined (%s)\n", peer.DisplayName, peer.MemberID)
}

func (p *printListener) OnMemberLeft(memberID, displayName string) {
	fmt.Printf("* %s left\n", displayName)
}

func (p *printListener) OnTyping(memberID, displayName string, isTyping bool) {
	if isTyping {
		fmt.Printf("* %s is typing...\n", displayName)
	}
}

func (p *printListener) OnCallIncoming(senderMemberID, senderDisplayName, mediaType string) {
	fmt.Printf("* incoming %s call from %s\n", mediaType, senderDisplayName)
}

func (p *printListener) OnCallSignal(senderMemberID string, signal any) {}

func (p *printListener) OnCallEnded() {
	fmt.Println("* call ended")
}

func runChat(serverURL, roomID, displayName string, debug bool) error {
	c := client.New(serverURL, debug)
	listener := &printListener{c: c}
	c.SetListener(listener)

	if err := c.Connect(); err != nil {
		return err
	}
	defer c.Close()

	if err := c.Join(roomID, displayName, client.DefaultJoinTimeout); err != nil {
		return fmt.Errorf("join room: %w", err)
	}

	fmt.Printf("Joined room: %s\n", roomID)
	fmt.Printf("Your member id: %s\n", c.MemberID())
	if peers := c.Peers(); len(peers) > 0 {
		fmt.Printf("Members already here: %d\n", len(peers))
	}
	fmt.Println("Type a message, or /peers, /verify <member-id>, /quit")

	// Leave cleanly on Ctrl+C so other members get the departure event.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-sigCh:
			fmt.Println("\nLeaving room...")
			return c.Leave()
		case line, ok := <-lines:
			if !ok {
				return c.Leave()
			}
			if done, err := handleLine(c, line); err != nil {
				fmt.Printf("! %v\n", err)
			} else if done {
				return c.Leave()
			}
		}
	}
}

func handleLine(c *client.Client, line string) (done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	switch {
	case line == "/quit":
		return true, nil

	case line == "/peers":
		peers := c.Peers()
		if len(peers) == 0 {
			fmt.Println("No other members in the room")
			return false, nil
		}
		for _, peer := range peers {
			fmt.Printf("  %s  %s\n", peer.MemberID, peer.DisplayName)
		}
		return false, nil

	case strings.HasPrefix(line, "/verify "):
		memberID := strings.TrimSpace(strings.TrimPrefix(line, "/verify "))
		number, err := c.SafetyNumber(memberID)
		if err != nil {
			return false, err
		}
		fmt.Println("Compare this safety number out of band; both sides must see the same digits:")
		fmt.Printf("  %s\n", number)
		return false, nil

	case strings.HasPrefix(line, "/"):
		return false, fmt.Errorf("unknown command %q", strings.Fields(line)[0])

	default:
		if len(c.Peers()) == 0 {
			fmt.Println("(no one else is here yet; message not sent)")
			return false, nil
		}
		_ = c.SendTyping(false)
		if _, err := c.SendText(line); err != nil {
			return false, err
		}
		return false, nil
	}
}
