package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/gdg-londrina/gdg-meetup/internal/calendar"
	"github.com/gdg-londrina/gdg-meetup/internal/logger"
	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
	"github.com/gdg-londrina/gdg-meetup/internal/notifier"
	"github.com/gdg-londrina/gdg-meetup/internal/storage"
	"github.com/gdg-londrina/gdg-meetup/internal/telegram"
)

const (
	ChannelTelegram = "telegram"
	ChannelTwitter  = "twitter"

	DefaultDataDir = "~/.local/share/gdg-meetup"

	// ledgerRetention is how long announced events are remembered
	ledgerRetention = 180 * 24 * time.Hour
)

// telegramInterval is the minimum spacing between two Telegram messages
var telegramInterval = time.Second

var (
	flagFormat  string
	flagSort    string
	flagVerbose bool

	flagChannel     string
	flagDryRun      bool
	flagMaxMessages int
	flagDigest      bool
	flagWithPhoto   bool
	flagOnlyNew     bool
	flagDataDir     string

	flagOutput string
)

func newGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "group",
		Short: "Print the group description",
		Args:  cobra.NoArgs,
		RunE:  runGroup,
	}
}

func runGroup(cmd *cobra.Command, args []string) error {
	client, err := newMeetupClient()
	if err != nil {
		return err
	}

	desc, err := fetchDescription(cmd.Context(), client)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), desc)
	return nil
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming events",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Sort order: date, name or seats")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Include descriptions and art links")

	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	order := SortOrder(strings.ToLower(flagSort))
	if !validSortOrder(order) {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'name' or 'seats')", flagSort)
	}

	client, err := newMeetupClient()
	if err != nil {
		return err
	}

	events, err := fetchEvents(cmd.Context(), client)
	if err != nil {
		return err
	}
	sortEvents(events, order)

	result := newOutputResult(appConfig.Meetup.Group, events, client)
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Announce upcoming events on Telegram or Twitter",
		Args:  cobra.NoArgs,
		RunE:  runNotify,
	}

	cmd.Flags().StringVar(&flagChannel, "channel", ChannelTelegram, "Channel: telegram or twitter")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print messages without sending")
	cmd.Flags().IntVar(&flagMaxMessages, "max-messages", 5, "Maximum number of events to announce")
	cmd.Flags().BoolVar(&flagDigest, "digest", false, "Telegram: send one digest message instead of one per event")
	cmd.Flags().BoolVar(&flagWithPhoto, "with-photo", false, "Telegram: send each event as its art with a caption")
	cmd.Flags().BoolVar(&flagOnlyNew, "only-new", false, "Only announce events not announced before on this channel")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", DefaultDataDir, "Directory for the announced-events ledger")

	return cmd
}

func runNotify(cmd *cobra.Command, args []string) error {
	channel := strings.ToLower(flagChannel)
	if channel != ChannelTelegram && channel != ChannelTwitter {
		return fmt.Errorf("invalid channel: %s (must be 'telegram' or 'twitter')", flagChannel)
	}
	if flagMaxMessages <= 0 {
		return fmt.Errorf("--max-messages must be positive")
	}

	client, err := newMeetupClient()
	if err != nil {
		return err
	}

	events, err := fetchEvents(cmd.Context(), client)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No upcoming events to announce")
		return nil
	}

	var (
		store  *storage.Storage
		ledger *storage.Ledger
	)
	if flagOnlyNew {
		store, err = storage.New(flagDataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		ledger, err = store.LoadLedger(channel)
		if err != nil {
			return fmt.Errorf("loading announced events: %w", err)
		}

		total := len(events)
		events = ledger.Unannounced(events)
		logger.Debug("Filtered announced events", logger.Fields{"total": total, "new": len(events)})
		if len(events) == 0 {
			fmt.Fprintln(out, "No new events to announce")
			return nil
		}
	}

	if len(events) > flagMaxMessages {
		events = events[:flagMaxMessages]
	}

	var sent int
	if channel == ChannelTwitter {
		sent, err = notifyTwitter(cmd, out, client, events)
	} else {
		sent, err = notifyTelegram(cmd, out, client, events)
	}
	if ledger == nil || flagDryRun || sent == 0 {
		return err
	}

	// Events that went out before a failure are recorded too
	return errors.Join(err, recordAnnounced(store, ledger, channel, events[:sent]))
}

// recordAnnounced marks events as announced and persists the channel's ledger
func recordAnnounced(store *storage.Storage, ledger *storage.Ledger, channel string, events []meetup.EventSummary) error {
	now := time.Now()
	ledger.MarkAnnounced(events, now)
	if pruned := ledger.Prune(now.Add(-ledgerRetention)); pruned > 0 {
		logger.Debug("Pruned announced events", logger.Fields{"count": pruned})
	}

	if err := store.SaveLedger(ledger, channel); err != nil {
		return fmt.Errorf("saving announced events: %w", err)
	}
	return nil
}

// notifyTwitter tweets events and returns how many were posted
func notifyTwitter(cmd *cobra.Command, out io.Writer, client *meetup.Client, events []meetup.EventSummary) (int, error) {
	var n notifier.Notifier
	if flagDryRun {
		fmt.Fprintf(out, "DRY RUN MODE - Would tweet %d events:\n\n", len(events))
		n = notifier.NewDryRunNotifier(out, client)
	} else {
		tw, err := notifier.NewTwitterNotifier(notifier.TwitterCredentials{
			APIKey:       appConfig.Twitter.APIKey,
			APISecret:    appConfig.Twitter.APISecret,
			AccessToken:  appConfig.Twitter.AccessToken,
			AccessSecret: appConfig.Twitter.AccessSecret,
		}, client)
		if err != nil {
			return 0, fmt.Errorf("initializing Twitter client: %w", err)
		}
		n = tw
	}

	sent, err := n.Notify(cmd.Context(), events)
	if err != nil {
		return sent, fmt.Errorf("posting tweets (%d of %d posted): %w", sent, len(events), err)
	}

	if !flagDryRun {
		logger.Info("Posted tweets", logger.Fields{"count": sent})
		fmt.Fprintf(out, "Successfully posted %d tweets\n", sent)
	}
	return sent, nil
}

// telegramMessage is one Telegram post: a photo with caption when PhotoURL is set.
// Events is how many events the post announces.
type telegramMessage struct {
	Text     string
	PhotoURL string
	Events   int
}

func buildTelegramMessages(cmd *cobra.Command, client *meetup.Client, events []meetup.EventSummary) ([]telegramMessage, error) {
	if flagDigest {
		desc, err := fetchDescription(cmd.Context(), client)
		if err != nil {
			return nil, err
		}
		return []telegramMessage{{Text: telegram.FormatDigest(desc, events, client), Events: len(events)}}, nil
	}

	msgs := make([]telegramMessage, 0, len(events))
	for _, evt := range events {
		if flagWithPhoto && evt.URLs.ArtURL != "" {
			msgs = append(msgs, telegramMessage{Text: telegram.FormatCaption(evt, client), PhotoURL: evt.URLs.ArtURL, Events: 1})
			continue
		}
		msgs = append(msgs, telegramMessage{Text: telegram.FormatEvent(evt, client), Events: 1})
	}
	return msgs, nil
}

// notifyTelegram sends events to the configured chat and returns how many
// events the delivered messages announced
func notifyTelegram(cmd *cobra.Command, out io.Writer, client *meetup.Client, events []meetup.EventSummary) (int, error) {
	msgs, err := buildTelegramMessages(cmd, client, events)
	if err != nil {
		return 0, err
	}

	if flagDryRun {
		fmt.Fprintf(out, "DRY RUN MODE - Would send %d messages:\n\n", len(msgs))
		for i, msg := range msgs {
			fmt.Fprintf(out, "--- Message %d/%d ---\n", i+1, len(msgs))
			if msg.PhotoURL != "" {
				fmt.Fprintf(out, "[photo: %s]\n", msg.PhotoURL)
			}
			fmt.Fprintln(out, msg.Text)
			fmt.Fprintf(out, "\n(Length: %d characters)\n\n", len([]rune(msg.Text)))
		}
		return len(events), nil
	}

	tg, err := telegram.NewClient(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID,
		telegram.WithAPIURL(appConfig.Telegram.APIURL))
	if err != nil {
		return 0, fmt.Errorf("initializing Telegram client: %w (set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID)", err)
	}

	ctx := cmd.Context()
	limiter := rate.NewLimiter(rate.Every(telegramInterval), 1)
	sent := 0
	for i, msg := range msgs {
		if err := limiter.Wait(ctx); err != nil {
			return sent, fmt.Errorf("waiting to send message %d: %w", i+1, err)
		}

		if msg.PhotoURL != "" {
			err = tg.SendPhoto(ctx, msg.PhotoURL, msg.Text)
		} else {
			err = tg.SendMessage(ctx, msg.Text)
		}
		if err != nil {
			logger.Error("Sending Telegram message failed", logger.Fields{"index": i, "sent": sent}, err)
			return sent, fmt.Errorf("sending message %d: %w", i+1, err)
		}
		sent += msg.Events
	}

	logger.Info("Sent Telegram messages", logger.Fields{"count": len(msgs)})
	fmt.Fprintf(out, "Successfully sent %d message(s)\n", len(msgs))
	return sent, nil
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export upcoming events as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE:  runCalendar,
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	client, err := newMeetupClient()
	if err != nil {
		return err
	}

	events, err := fetchEvents(cmd.Context(), client)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No upcoming events to export")
		return nil
	}

	w := cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.OpenFile(flagOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOutput, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("Closing calendar file failed", logger.Fields{"path": flagOutput})
			}
		}()
		w = f
	}

	if err := calendar.Encode(w, events, time.Now()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	if flagOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(events), flagOutput)
	}
	return nil
}
