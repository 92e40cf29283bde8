package notifier

import (
	"fmt"
	"html"

	"github.com/dustin/go-humanize"

	"deal_scout/internal/domain/entity"
)

const maxDescriptionRunes = 200

type Message struct {
	Subject     string
	Text        string
	HTML        string
	Opportunity entity.Opportunity
}

func NewMessage(o entity.Opportunity) Message {
	desc := shorten(o.Deal.Description)

	return Message{
		Subject: fmt.Sprintf("Deal Alert! $%s off: %s", money(o.Discount), shorten(firstLine(o.Deal.Description))),
		Text: fmt.Sprintf("Deal Alert! Price=$%s, Estimate=$%s, Discount=$%s : %s %s",
			money(o.Deal.Price), money(o.Estimate), money(o.Discount), desc, o.Deal.URL),
		HTML: fmt.Sprintf(
			"🔥 <b>Deal Alert!</b>\n\n"+
				"💰 <b>Price:</b> $%s\n"+
				"📊 <b>Estimate:</b> $%s\n"+
				"📉 <b>Discount:</b> $%s\n\n"+
				"%s\n\n"+
				"🔗 <a href=\"%s\">Open deal</a>",
			money(o.Deal.Price),
			money(o.Estimate),
			money(o.Discount),
			html.EscapeString(desc),
			html.EscapeString(o.Deal.URL),
		),
		Opportunity: o,
	}
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxDescriptionRunes {
		return s
	}
	return string(r[:maxDescriptionRunes]) + "..."
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
