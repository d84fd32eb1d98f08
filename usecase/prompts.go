package usecase

import (
	"fmt"
	"html"
	"strings"
)

const coachName = "FaceTheFacts"

// ReportInput is everything the report prompt embeds.
type ReportInput struct {
	DurationMinutes float64
	TotalBlinks     int
	BlinkRate       float64
	AvgEAR          float64
	Emotions        EmotionSummary
	Activity        ActivityLevel
	TotalKeys       int
	TotalMouse      int
}

const reportPromptTemplate = `You are an AI Wellbeing Coach named '%s'.
Analyze the following user data from a webcam monitoring session:

- Session Duration: %.2f minutes
- Total Blinks: %d (Rate: %.1f blinks/min)
- Average Eye Openness (EAR): %.3f (Low < 0.25 indicates fatigue)
- Dominant Emotion: %s
- Emotion History: %s
- Work Activity: %s
  (Key Strokes: %d, Mouse Movement: %dpx)

Task: Write a helpful, empathetic wellbeing report for this user.

Insight Logic:
- If Activity is High but Blinks are Low: warn about "Computer Vision Syndrome" (staring while working).
- If Activity is Low and Emotion is Neutral: they might be reading or passively watching.
- If Activity is High and Emotion is Stressed: suggest a break immediately.

Format Requirements:
- Use HTML tags (<h3>, <p>, <ul>, <li>, <strong>) for formatting.
- Do not use Markdown.
- Keep it under 200 words.

Structure:
1. <h3>Session Summary</h3>: a quick observation of their focus, work intensity, and blinking.
2. <h3>Emotional State</h3>: analyze their mood based on the dominant emotion.
3. <h3>Actionable Tips</h3>: give 2 specific tips based on the data.
`

func BuildReportPrompt(in ReportInput) string {
	return fmt.Sprintf(reportPromptTemplate,
		coachName,
		in.DurationMinutes,
		in.TotalBlinks, in.BlinkRate,
		in.AvgEAR,
		in.Emotions.Dominant,
		in.Emotions.Describe(),
		in.Activity.Describe(),
		in.TotalKeys, in.TotalMouse,
	)
}

// ChatContext is the stats block the coach conversation is seeded with.
type ChatContext struct {
	Username       string
	RecentSessions int
	AvgBlinks      float64
}

func BuildChatContext(in ChatContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are '%s Coach', a helpful AI assistant.\n\n", coachName)
	b.WriteString("USER CONTEXT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", in.Username)
	fmt.Fprintf(&b, "- Recent Sessions: %d\n", in.RecentSessions)
	fmt.Fprintf(&b, "- Avg Blinks (Recent): %.1f\n\n", in.AvgBlinks)
	b.WriteString("Instructions: Answer briefly and supportively.\n")
	return b.String()
}

const chatAcknowledgement = "Understood."

const missingKeyFragment = "<h3>Error: Gemini API Key missing.</h3><p>Please check your .env file.</p>"

func reportErrorFragment(err error) string {
	return fmt.Sprintf("<h3>AI Connection Error</h3><p>Could not generate report. Error details: %s</p>",
		html.EscapeString(err.Error()))
}
