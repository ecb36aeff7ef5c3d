package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"fitcast-backend/outfit"
)

const (
	// FallbackAdvice replaces a label the model could not produce
	FallbackAdvice = "Unable to generate fitcast advice."
	// FallbackDescription replaces a description the model could not produce
	FallbackDescription = "Unable to generate fitcast description."

	defaultMaxRetries     = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultBurst          = 5
)

var ErrNoGenerator = errors.New("no text generator configured")

// Conditions summarises the weather a recommendation is written for
type Conditions struct {
	Description string
	TempF       float64
	HighF       float64
	LowF        float64
}

// ConditionsFromPoint builds Conditions from a forecast point
func ConditionsFromPoint(p outfit.Point) Conditions {
	description := p.Description
	if description == "" {
		description = string(p.Condition)
	}
	return Conditions{Description: description, TempF: p.TempF, HighF: p.HighF, LowF: p.LowF}
}

// Advisor writes short clothing advice with a Generator. Calls are rate
// limited and retried; every method returns a fallback text with its error.
type Advisor struct {
	generator      Generator
	limiter        *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
}

// Option is a functional option for Advisor
type Option func(*Advisor)

// WithRatePerMinute caps outbound model calls; n <= 0 disables the cap
func WithRatePerMinute(n int) Option {
	return func(a *Advisor) {
		if n <= 0 {
			a.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := defaultBurst
		if n < burst {
			burst = n
		}
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), burst)
	}
}

// WithRetries sets the attempt count and the first backoff delay
func WithRetries(maxRetries int, initialBackoff time.Duration) Option {
	return func(a *Advisor) {
		if maxRetries > 0 {
			a.maxRetries = maxRetries
		}
		a.initialBackoff = initialBackoff
	}
}

// New creates an Advisor. A nil generator makes every call fall back.
func New(generator Generator, opts ...Option) *Advisor {
	a := &Advisor{
		generator:      generator,
		limiter:        rate.NewLimiter(rate.Inf, 0),
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a generator is configured
func (a *Advisor) Enabled() bool {
	return a != nil && a.generator != nil
}

// Label asks for a one-line clothing recommendation for current conditions
func (a *Advisor) Label(ctx context.Context, c Conditions) (string, error) {
	prompt := fmt.Sprintf(
		"Current weather: %q. Temperature %.0f°F, high %.0f°F, low %.0f°F. "+
			"Recommend specific clothing pieces for this weather in one short sentence, "+
			"for example \"Dress light with a short sleeve shirt and pants\" or \"Bundle up with a big jacket\". "+
			"No reasoning and no styling notes. Ten words at most, proper grammar, complete sentence.",
		c.Description, c.TempF, c.HighF, c.LowF,
	)
	text, err := a.generate(ctx, "label", prompt, GenerateOptions{Temperature: 0.4, MaxOutputTokens: 32})
	if err != nil {
		return FallbackAdvice, err
	}
	return text, nil
}

// Describe explains why a label suits the conditions. A fallback label is
// not described and yields an empty string.
func (a *Advisor) Describe(ctx context.Context, c Conditions, label string) (string, error) {
	if label == "" || label == FallbackAdvice {
		return "", nil
	}
	prompt := fmt.Sprintf(
		"Briefly explain why %q suits the current weather: %q, %.0f°F with a high of %.0f°F and a low of %.0f°F. "+
			"Something like \"You usually run warm in these conditions. Later it will cool down and rain.\" works well. "+
			"Mention how thick the clothing should be if useful. Under 25 words, full sentences, no apologies, no quotation marks.",
		label, c.Description, c.TempF, c.HighF, c.LowF,
	)
	text, err := a.generate(ctx, "description", prompt, GenerateOptions{Temperature: 0.6, MaxOutputTokens: 64})
	if err != nil {
		return FallbackDescription, err
	}
	return text, nil
}

// DescribeTimeline explains what to wear across the coming forecast points
func (a *Advisor) DescribeTimeline(ctx context.Context, points []outfit.Point) (string, error) {
	if len(points) == 0 {
		return "", nil
	}
	prompt := fmt.Sprintf(
		"Forecast:\n%s\n"+
			"Tell the reader what to wear. Point out changes through the day that call for an outfit switch, "+
			"name the exact times and the weather or temperature behind each suggestion, and be specific about the clothing. "+
			"Address the reader directly in full sentences, under 25 words.",
		FormatHourly(points),
	)
	text, err := a.generate(ctx, "timeline", prompt, GenerateOptions{Temperature: 0.6, MaxOutputTokens: 64})
	if err != nil {
		return FallbackAdvice, err
	}
	return text, nil
}

// Summarize shortens a timeline description into a label
func (a *Advisor) Summarize(ctx context.Context, description string) (string, error) {
	if description == "" || description == FallbackAdvice {
		return FallbackAdvice, nil
	}
	prompt := fmt.Sprintf("Summarize %q in under 12 words. Keep the chronology and finish the sentence.", description)
	text, err := a.generate(ctx, "summary", prompt, GenerateOptions{Temperature: 0.3, MaxOutputTokens: 32})
	if err != nil {
		return FallbackAdvice, err
	}
	return text, nil
}

// PackingNote writes a short note to go with a packing list
func (a *Advisor) PackingNote(ctx context.Context, destination string, daily []outfit.Point, items []outfit.PackingItem) (string, error) {
	var lines []string
	for _, p := range daily {
		lines = append(lines, fmt.Sprintf("%s - %s, high %.0f°F, low %.0f°F",
			p.Time.Format("Mon Jan 2"), describePoint(p), p.HighF, p.LowF))
	}
	var packed []string
	for _, item := range items {
		packed = append(packed, fmt.Sprintf("%d x %s", item.Count, item.Item))
	}
	prompt := fmt.Sprintf(
		"A traveller is going to %s.\nDaily weather:\n%s\nPacking list: %s.\n"+
			"In two short sentences, tell them what weather to expect and anything worth adding to the list. "+
			"Full sentences, no quotation marks.",
		destination, strings.Join(lines, "\n"), strings.Join(packed, ", "),
	)
	text, err := a.generate(ctx, "packing", prompt, GenerateOptions{Temperature: 0.6, MaxOutputTokens: 128})
	if err != nil {
		return FallbackAdvice, err
	}
	return text, nil
}

func (a *Advisor) generate(ctx context.Context, kind, prompt string, opts GenerateOptions) (string, error) {
	if !a.Enabled() {
		return "", ErrNoGenerator
	}

	var lastErr error
	backoff := a.initialBackoff
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		text, err := a.generator.Generate(ctx, prompt, opts)
		if err == nil {
			text = Clean(text)
			if text != "" {
				return text, nil
			}
			err = ErrEmptyResponse
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
		logrus.WithFields(logrus.Fields{
			"kind":    kind,
			"attempt": attempt + 1,
		}).WithError(err).Warn("Text generation attempt failed")
	}

	logrus.WithField("kind", kind).WithError(lastErr).Error("Text generation failed, using fallback")
	return "", fmt.Errorf("failed to generate %s after %d attempts: %w", kind, a.maxRetries, lastErr)
}

// retryable reports whether a generation error is worth another attempt.
// Rate limiting, server errors, network failures and empty replies are;
// bad requests, auth failures and blocked prompts fail the same way again.
func retryable(err error) bool {
	if errors.Is(err, ErrEmptyResponse) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

var quoteStripper = strings.NewReplacer(`"`, "", "“", "", "”", "", "*", "")

// Clean trims whitespace and strips quotation marks from model output
func Clean(text string) string {
	text = quoteStripper.Replace(strings.TrimSpace(text))
	text = strings.Trim(text, "'‘’` \n\t")
	return strings.Join(strings.Fields(text), " ")
}

// FormatHourly renders points as "14:00 - Rain with a temperature of 55.2°F" lines
func FormatHourly(points []outfit.Point) string {
	lines := make([]string, 0, len(points))
	for _, p := range points {
		lines = append(lines, fmt.Sprintf("%s - %s with a temperature of %.1f°F",
			p.Time.Format("15:04"), describePoint(p), p.TempF))
	}
	return strings.Join(lines, "\n")
}

func describePoint(p outfit.Point) string {
	if p.Description != "" {
		return p.Description
	}
	return string(p.Condition)
}
