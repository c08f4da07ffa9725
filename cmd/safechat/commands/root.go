package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ashev87/safechat/shared/logger"
)

var (
	serverURL   string
	roomID      string
	displayName string
	debug       bool
)

func Execute() error {
	root := &cobra.Command{
		Use:   "safechat",
		Short: "Terminal client for encrypted ephemeral group chat",
		Long: `safechat joins an encrypted chat room over a zero-knowledge relay.
All messages are encrypted on this machine, per peer, before anything is
sent. The relay only ever sees ciphertext.

Leave the room id empty to create a fresh room; share the printed id
out of band to invite others.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logger.SetLevel(logger.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if roomID == "" {
				roomID = uuid.NewString()
			}
			return runChat(serverURL, roomID, displayName, debug)
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3010", "relay server URL")
	root.PersistentFlags().StringVar(&roomID, "room", "", "room id to join (empty generates a new one)")
	root.PersistentFlags().StringVar(&displayName, "name", "", "display name shown to other members")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	return root.Execute()
}
