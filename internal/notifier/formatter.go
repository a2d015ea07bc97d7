package notifier

import (
	"fmt"
	"html"
	"strings"

	"PriceDigest/internal/model"

	"github.com/dustin/go-humanize"
)

// DigestRows is how many of the most recent records a digest lists.
const DigestRows = 5

// FormatDigest formats a document into a Telegram message.
func FormatDigest(doc *model.MarketDocument) string {
	var b strings.Builder

	date := ""
	if last, ok := doc.Last(); ok {
		date = last.Date
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", trend(doc.Current.Change), html.EscapeString(doc.Ticker), html.EscapeString(date)))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f, %+.2f%%)\n", doc.Current.Price, doc.Current.Change, doc.Current.Pct))

	series := doc.Series
	if len(series) > DigestRows {
		series = series[len(series)-DigestRows:]
	}
	b.WriteString("\n<pre>")
	for _, r := range series {
		b.WriteString(fmt.Sprintf("%s  %9.2f  %9.2f  %9.2f  %s\n",
			html.EscapeString(r.Date), r.Close, r.High, r.Low, humanize.Comma(r.Volume)))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatWatchlist summarizes one refresh of the watchlist.
func FormatWatchlist(docs []*model.MarketDocument, failed []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Watchlist</b> | %d updated\n\n", len(docs)))
	for _, doc := range docs {
		b.WriteString(fmt.Sprintf("%s %s  %.2f  %+.2f%%\n",
			trend(doc.Current.Change), html.EscapeString(doc.Ticker), doc.Current.Price, doc.Current.Pct))
	}
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("\n❌ failed: %s\n", html.EscapeString(strings.Join(failed, ", "))))
	}
	return b.String()
}

// FormatFailure reports a generation that did not produce a document.
func FormatFailure(ticker string, err error) string {
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(ticker), html.EscapeString(err.Error()))
}

// HelpText lists the bot commands.
const HelpText = "Available commands:\n" +
	"• /quote TICKER [DAYS] - latest digest for TICKER (default 7 days)\n" +
	"• /watchlist - tickers refreshed on schedule\n" +
	"• /help - this message"

func trend(change float64) string {
	switch {
	case change > 0:
		return "📈"
	case change < 0:
		return "📉"
	}
	return "➖"
}
