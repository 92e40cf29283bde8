package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"deal_scout/internal/domain/entity"
)

const (
	StartMessage = "👋 <b>Deal Scout</b>\n\n" +
		"/status - состояние планировщика\n" +
		"/scan - запустить проход\n" +
		"/recent - последние найденные сделки\n" +
		"/threshold <code>N</code> - порог скидки в долларах"

	ThresholdMissingArgument = "❌ Использование: /threshold <code>N</code>"
	ThresholdInvalidFormat   = "❌ Порог должен быть положительным числом"
	ThresholdSuccess         = "✅ Порог установлен: $%s\n💡 Действует со следующего прохода"

	ScanInProgress = "⏳ Проход уже выполняется"
	ScanQueued     = "🚀 Проход запущен, задача <code>%s</code>"
	ScanFailed     = "❌ Не удалось запустить проход"

	RecentEmpty = "📭 Сделок пока нет"
	RecentError = "❌ Не удалось загрузить сделки"
)

const descriptionLimit = 120

func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Status renders the planner state and the outcome of the last pass.
func Status(state string, threshold float64, last *Run) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Статус</b>\n\n")
	fmt.Fprintf(&sb, "🔍 <b>Планировщик:</b> %s\n", html.EscapeString(state))
	fmt.Fprintf(&sb, "📉 <b>Порог:</b> $%s\n", Money(threshold))

	if last == nil {
		sb.WriteString("\n<i>Проходов ещё не было</i>")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n🕒 <b>Последний проход:</b> %s (%s)\n",
		last.StartedAt.UTC().Format(time.DateTime), last.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "📦 Кандидатов: %d, сделок: %d, пропущено: %d\n",
		last.Candidates, last.Deals, last.Skipped)
	fmt.Fprintf(&sb, "💰 Найдено: %d", last.Opportunities)

	if last.Err != "" {
		fmt.Fprintf(&sb, "\n⚠️ Ошибка: <code>%s</code>", html.EscapeString(last.Err))
	}

	return sb.String()
}

// Run is the part of a pass summary the bot shows.
type Run struct {
	StartedAt     time.Time
	Duration      time.Duration
	Candidates    int
	Deals         int
	Skipped       int
	Opportunities int
	Err           string
}

func Recent(opportunities []entity.Opportunity, page, totalPages int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "💎 <b>Найденные сделки</b> (Стр. %d/%d)\n\n", page, totalPages)

	for _, o := range opportunities {
		fmt.Fprintf(&sb, "• <a href=\"%s\">%s</a>\n   $%s → $%s, выгода <b>$%s</b>\n",
			html.EscapeString(o.Deal.URL),
			html.EscapeString(shorten(o.Deal.Description)),
			Money(o.Deal.Price),
			Money(o.Estimate),
			Money(o.Discount),
		)
	}

	return sb.String()
}

func shorten(s string) string {
	s = strings.TrimSpace(strings.SplitN(s, "\n", 2)[0])

	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}

	return string(runes[:descriptionLimit]) + "..."
}
