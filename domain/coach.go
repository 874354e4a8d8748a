package domain

import "strings"

// CoachType selects a coaching persona.
type CoachType string

const (
	CoachFitness      CoachType = "fitness"
	CoachCareer       CoachType = "career"
	CoachMindfulness  CoachType = "mindfulness"
	CoachFinance      CoachType = "finance"
	CoachRelationship CoachType = "relationship"
)

// CoachTypes lists every persona in display order.
var CoachTypes = []CoachType{CoachFitness, CoachCareer, CoachMindfulness, CoachFinance, CoachRelationship}

func (c CoachType) IsValid() bool {
	switch c {
	case CoachFitness, CoachCareer, CoachMindfulness, CoachFinance, CoachRelationship:
		return true
	default:
		return false
	}
}

// ParseCoachType returns the persona for input, falling back to fitness.
func ParseCoachType(input string) CoachType {
	c := CoachType(strings.TrimSpace(strings.ToLower(input)))
	if !c.IsValid() {
		return CoachFitness
	}
	return c
}

// SystemPrompt returns the persona's chat system prompt.
func (c CoachType) SystemPrompt() string {
	switch c {
	case CoachCareer:
		return `You are Career Mentor, a professional career development expert. You provide:
- Resume and cover letter reviews with specific improvements
- Interview preparation and mock interview practice
- Career advancement strategies and job search tactics
- Salary negotiation advice
- Professional networking tips
Keep your responses actionable, realistic, and tailored to the user's career stage.`
	case CoachMindfulness:
		return `You are Mindfulness Coach, a meditation and stress management expert. You provide:
- Guided meditation techniques and practices
- Stress management strategies
- Mindfulness exercises for daily life
- Breathing techniques for anxiety relief
- Tips for emotional wellness and balance
Keep your responses calming, supportive, and focused on practical mindfulness practices.`
	case CoachFinance:
		return `You are Finance Coach, a personal finance and budgeting expert. You provide:
- Budgeting strategies and expense tracking tips
- Saving and emergency fund planning
- Investment guidance for beginners
- Debt management strategies
- Financial goal setting and planning
Keep your responses clear, practical, and focused on building healthy financial habits.`
	case CoachRelationship:
		return `You are Heart Guide, a relationship and communication expert. You provide:
- Communication skills and conflict resolution techniques
- Relationship dynamics and healthy boundaries guidance
- Emotional intelligence development
- Dating advice and relationship building
- Self-love and personal growth insights
Keep your responses empathetic, non-judgmental, and focused on healthy relationship patterns.`
	default:
		return `You are FitCoach Pro, an expert fitness and nutrition coach. You provide:
- Personalized workout plans based on fitness levels and goals
- Form corrections and exercise technique guidance
- Nutrition advice and meal planning
- Motivational support and accountability
- Injury prevention tips
Keep your responses practical, encouraging, and focused on sustainable health habits.`
	}
}

// TaskFocus describes what kind of tasks the persona should extract from a conversation.
func (c CoachType) TaskFocus() string {
	switch c {
	case CoachFitness:
		return "fitness goals like workout routines, nutrition plans, exercise targets"
	case CoachCareer:
		return "career goals like skill development, networking, job applications, promotions"
	case CoachMindfulness:
		return "mindfulness goals like meditation practice, stress reduction, emotional balance"
	case CoachFinance:
		return "financial goals like budgeting, saving targets, investment plans, debt reduction"
	case CoachRelationship:
		return "relationship goals like communication improvements, quality time, conflict resolution"
	default:
		return "personal development goals"
	}
}

// DisplayName is the persona's human-readable name.
func (c CoachType) DisplayName() string {
	switch c {
	case CoachCareer:
		return "Career Coach"
	case CoachMindfulness:
		return "Mindfulness Coach"
	case CoachFinance:
		return "Finance Coach"
	case CoachRelationship:
		return "Relationship Coach"
	default:
		return "Fitness Coach"
	}
}
