package cli

import (
	"time"

	"github.com/spf13/cobra"

	"trading-discipline/internal/emotion"
	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/market"
	"trading-discipline/internal/models"
	"trading-discipline/internal/records"
	"trading-discipline/pkg/utils"
)

func addEmotionCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newEmotionCmd(app))
}

func newEmotionCmd(app *App) *cobra.Command {
	var (
		actionType  string
		price       float64
		quantity    float64
		at          string
		symbol      string
		historyFile string
		candlesFile string
		sessionFile string
		recentFile  string
		report      bool
	)

	cmd := &cobra.Command{
		Use:   "emotion",
		Short: "Score the emotional risk of a proposed buy or sell",
		Long: `Score a proposed action for chasing a rally, panic selling, over-trading and
FOMO. Market context comes from a price snapshot (--history) or is derived from
daily candles (--candles, optionally --session). Recent actions (--recent) feed
the frequency and FOMO checks.

A total of 60 or more recommends blocking the action.`,
		Example: `  discipline emotion --action buy --price 105 --history aapl.json --recent actions.json
  discipline emotion --action sell --price 92 --candles daily.csv --symbol AAPL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)

			var kind models.ActionType
			if err := kind.UnmarshalText([]byte(actionType)); err != nil {
				return err
			}
			ts, err := ParseTime(at, time.Now().UTC())
			if err != nil {
				return err
			}
			action := models.TradeAction{
				Type:      kind,
				Symbol:    symbol,
				Price:     price,
				Quantity:  quantity,
				Timestamp: ts,
			}
			if err := action.Validate(); err != nil {
				return err
			}

			history, err := loadHistory(app, cmd, symbol, historyFile, candlesFile, sessionFile)
			if err != nil {
				return err
			}
			if history.Symbol != "" && action.Symbol == "" {
				action.Symbol = history.Symbol
			}

			var recent []models.TradeAction
			if recentFile != "" {
				recent, err = load(app, cmd, recentFile, records.KindActions, records.DecodeActions)
				if err != nil {
					return err
				}
			}

			score := app.Engine.ScoreEmotionalRisk(action, history, recent)
			if output.IsStructured() {
				return output.Structured(score)
			}
			if report {
				output.Printf("%s", emotion.Report(score))
				return nil
			}
			printEmotion(output, action, history, score)
			return nil
		},
	}

	cmd.Flags().StringVar(&actionType, "action", "", "buy or sell")
	cmd.Flags().Float64Var(&price, "price", 0, "proposed price")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "proposed quantity")
	cmd.Flags().StringVar(&at, "at", "", "action time, RFC3339 (default: now)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "instrument symbol")
	cmd.Flags().StringVar(&historyFile, "history", "", "price snapshot file")
	cmd.Flags().StringVar(&candlesFile, "candles", "", "daily candles file, oldest first")
	cmd.Flags().StringVar(&sessionFile, "session", "", "intraday candles for the current session")
	cmd.Flags().StringVar(&recentFile, "recent", "", "recent trade actions file")
	cmd.Flags().BoolVar(&report, "report", false, "print the plain-text report")
	_ = cmd.MarkFlagRequired("action")
	_ = cmd.MarkFlagRequired("price")
	cmd.MarkFlagsMutuallyExclusive("history", "candles")

	return cmd
}

// loadHistory reads a snapshot, or builds one from candles. With neither, the
// market-driven rules have nothing to compare and stay silent.
func loadHistory(app *App, cmd *cobra.Command, symbol, historyFile, candlesFile, sessionFile string) (models.PriceHistory, error) {
	switch {
	case historyFile != "":
		return load(app, cmd, historyFile, records.KindHistory, records.DecodeHistory)
	case candlesFile != "":
		daily, err := load(app, cmd, candlesFile, records.KindCandles, records.DecodeCandles)
		if err != nil {
			return models.PriceHistory{}, err
		}
		var session []models.Candle
		if sessionFile != "" {
			session, err = load(app, cmd, sessionFile, records.KindCandles, records.DecodeCandles)
			if err != nil {
				return models.PriceHistory{}, err
			}
		}
		h, err := market.BuildPriceHistory(symbol, daily, session)
		if err != nil {
			return models.PriceHistory{}, apperrors.Wrapf(err, "building price history from %s", candlesFile)
		}
		return h, nil
	}
	app.Logger.Debug().Msg("No market context given, price rules disabled")
	return models.PriceHistory{}, nil
}

func printEmotion(output *Output, action models.TradeAction, h models.PriceHistory, score models.EmotionScore) {
	output.Bold("Proposed %s %s at %s", action.Type, action.Symbol, utils.FormatPrice(action.Price))
	if h.CurrentPrice > 0 {
		output.Dim("Market: %s  1d %s  5d %s  30d %s",
			utils.FormatPrice(h.CurrentPrice),
			utils.FormatPercent(h.PriceChange1d),
			utils.FormatPercent(h.PriceChange5d),
			utils.FormatPercent(h.PriceChange30d))
	}
	if h.AvgVolume > 0 {
		output.Dim("Volume: %s vs %s average", utils.FormatCompact(h.Volume), utils.FormatCompact(h.AvgVolume))
	}
	output.Println()

	t := output.NewTable("", "Factor", "Score")
	t.AddRow("Chasing rally", FormatScore(score.Factors.ChasingRally, emotion.MaxChasingRally))
	t.AddRow("Panic selling", FormatScore(score.Factors.PanicSelling, emotion.MaxPanicSelling))
	t.AddRow("High frequency", FormatScore(score.Factors.HighFrequency, emotion.MaxHighFrequency))
	t.AddRow("FOMO", FormatScore(score.Factors.FOMO, emotion.MaxFOMO))
	t.AddSeparator()
	t.AddRow("Total "+output.LevelText(score.Level), FormatScore(score.Total, 100))
	t.AlignRight(2)
	t.Render()

	for _, w := range score.Warnings {
		output.Warning("• %s", w)
	}
	if score.ShouldBlock {
		output.Println()
		output.Alarm(" BLOCK: pause trading and take a cooling-off period ")
	}
}
