package handlers

import (
	"log/slog"
	"strings"

	"github.com/MegaGrindStone/quickthought/internal/models"
	"github.com/tmaxmax/go-sse"
)

// display renders relay updates as template partials and publishes them to every connected page.
type display struct {
	m Main
}

func (d display) RenderInput(text string, placeholder bool) {
	in := inputData{Text: text, Placeholder: placeholder}

	d.m.widget.mu.Lock()
	d.m.widget.input = in
	d.m.widget.mu.Unlock()

	d.publish(inputSSEType, "input_box", in)
}

func (d display) RenderMessage(exchange models.Exchange) {
	d.m.widget.mu.Lock()
	d.m.widget.exchange = exchange
	d.m.widget.mu.Unlock()

	d.publish(sse.Type(string(exchange.StreamingState)), "message_content", exchange)
}

func (d display) RenderTimer(elapsed string) {
	d.m.widget.mu.Lock()
	d.m.widget.timer = elapsed
	d.m.widget.mu.Unlock()

	msg := sse.Message{Type: timerSSEType}
	msg.AppendData(elapsed)
	if err := d.m.sseSrv.Publish(&msg); err != nil {
		d.m.logger.Error("Failed to publish timer", slog.String(errLoggerKey, err.Error()))
	}
}

func (d display) publish(typ sse.EventType, templateName string, data any) {
	var sb strings.Builder
	if err := d.m.templates.ExecuteTemplate(&sb, templateName, data); err != nil {
		d.m.logger.Error("Failed to render template",
			slog.String("template", templateName),
			slog.String(errLoggerKey, err.Error()))
		return
	}

	msg := sse.Message{Type: typ}
	msg.AppendData(sb.String())
	if err := d.m.sseSrv.Publish(&msg); err != nil {
		d.m.logger.Error("Failed to publish update",
			slog.String("template", templateName),
			slog.String(errLoggerKey, err.Error()))
	}
}
