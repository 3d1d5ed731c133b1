package generate

import (
	"fmt"
	"strings"
)

// ExperienceLevel adjusts the prompt's guidance to career stage.
type ExperienceLevel string

// Experience level constants
const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelExecutive ExperienceLevel = "executive"
)

// ParseExperienceLevel validates a user-supplied level. Empty input is
// accepted and means no level-specific guidance.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch ExperienceLevel(strings.ToLower(s)) {
	case "":
		return "", nil
	case LevelEntry:
		return LevelEntry, nil
	case LevelMid:
		return LevelMid, nil
	case LevelSenior:
		return LevelSenior, nil
	case LevelExecutive:
		return LevelExecutive, nil
	default:
		return "", fmt.Errorf("unknown experience level %q", s)
	}
}

const masterPrompt = `You are an expert resume writer with years of experience in crafting compelling, ATS-optimized resumes. Your task is to create a professional resume based on the provided information.

GUIDELINES:
1. Write in a clear, concise, and professional tone
2. Use action verbs to start bullet points (Managed, Developed, Increased, Implemented, Led, Optimized, etc.)
3. Quantify achievements with numbers, percentages, and metrics where possible
4. Tailor content to the target role and industry if specified
5. Ensure ATS compatibility by using standard section headers and keywords
6. Keep the resume to 1-2 pages worth of content
7. Prioritize most relevant and recent experience
8. Write a compelling professional summary that highlights key strengths

FORMAT:
- Use clear section headers: Professional Summary, Work Experience, Education, Skills, etc.
- For each job, include: Job Title | Company | Location | Dates
- Use bullet points for responsibilities and achievements (3-5 per role)
- List education with degree, institution, and graduation date
- Organize skills into relevant categories

IMPORTANT:
- Focus on accomplishments over responsibilities
- Use industry-specific keywords naturally
- Ensure consistency in formatting and tense
- Make every word count - no fluff or filler

PROFESSIONAL SUMMARY GUIDELINES:
- 2-3 sentences maximum
- Highlight years of experience and key expertise areas
- Include 2-3 major achievements or skills
- Align with target role if specified

Return the resume in a clean, structured format that can be easily parsed and styled.`

// industryKeywords are folded into the prompt when a target industry is set.
var industryKeywords = map[string][]string{
	"tech": {
		"scalable", "agile", "cloud", "microservices", "CI/CD", "optimization",
		"architecture", "full-stack", "API", "performance", "security", "DevOps",
	},
	"finance": {
		"ROI", "P&L", "compliance", "risk management", "portfolio", "analysis",
		"forecasting", "budgeting", "audit", "regulatory", "stakeholder",
	},
	"marketing": {
		"campaign", "ROI", "engagement", "conversion", "brand", "strategy",
		"analytics", "SEO", "content", "social media", "lead generation",
	},
	"sales": {
		"quota", "pipeline", "revenue", "client retention", "negotiation",
		"prospecting", "closing", "relationship building", "territory", "growth",
	},
	"healthcare": {
		"patient care", "compliance", "HIPAA", "clinical", "diagnosis",
		"treatment", "healthcare systems", "quality improvement", "protocols",
	},
	"education": {
		"curriculum", "assessment", "student outcomes", "differentiation",
		"classroom management", "professional development", "collaboration",
	},
}

var levelGuidelines = map[ExperienceLevel]string{
	LevelEntry: `ENTRY LEVEL GUIDELINES:
- Focus on education, internships, and relevant projects
- Highlight transferable skills and potential
- Include academic achievements and extracurricular activities
- Emphasize eagerness to learn and grow`,

	LevelMid: `MID-LEVEL GUIDELINES:
- Balance technical skills with emerging leadership
- Show progression and increased responsibilities
- Include specific project outcomes and contributions
- Demonstrate ability to work independently`,

	LevelSenior: `SENIOR LEVEL GUIDELINES:
- Emphasize leadership and strategic thinking
- Include team/project management experience
- Focus on business impact and ROI
- Show expertise and thought leadership`,

	LevelExecutive: `EXECUTIVE LEVEL GUIDELINES:
- Focus on strategic vision and business transformation
- Include board-level metrics (revenue, growth, market share)
- Emphasize leadership of large teams/organizations
- Show industry influence and thought leadership`,
}

// BuildSystemPrompt composes the system prompt from the master prompt plus
// optional role, industry and experience-level guidance. Unknown industries
// still get the generic industry block, just without a keyword list.
func BuildSystemPrompt(targetRole, targetIndustry string, level ExperienceLevel) string {
	var sb strings.Builder
	sb.WriteString(masterPrompt)

	if targetRole != "" {
		fmt.Fprintf(&sb, "\n\nTARGET ROLE: %s\n", targetRole)
		sb.WriteString(`- Emphasize skills and experiences most relevant to this position
- Use job-specific keywords and terminology
- Align achievements with typical requirements for this role`)
	}

	if targetIndustry != "" {
		fmt.Fprintf(&sb, "\n\nTARGET INDUSTRY: %s\n", targetIndustry)
		sb.WriteString(`- Use industry-specific terminology and acronyms
- Highlight relevant industry experience
- Focus on industry-valued metrics and achievements`)
		if keywords, ok := industryKeywords[strings.ToLower(targetIndustry)]; ok {
			fmt.Fprintf(&sb, "\n- Incorporate relevant keywords: %s", strings.Join(keywords, ", "))
		}
	}

	if guidance, ok := levelGuidelines[level]; ok {
		sb.WriteString("\n\n")
		sb.WriteString(guidance)
	}

	return sb.String()
}
