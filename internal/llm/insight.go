package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-recommender/internal/prompts"
	"github.com/jonathan/career-recommender/internal/types"
)

const promptFile = "insights.json"

// promptField describes one key of the JSON the model must return.
type promptField struct {
	Name        string
	Type        string
	Description string
}

var insightFields = []promptField{
	{Name: "role", Type: `"string"`, Description: "the role name exactly as given"},
	{Name: "overview", Type: `"string"`, Description: "two or three sentences on what the job involves"},
	{Name: "advantages", Type: `["string"]`, Description: "up to four reasons the role suits these skills"},
	{Name: "challenges", Type: `["string"]`, Description: "up to four gaps or difficulties to expect"},
	{Name: "careerPath", Type: `"string"`, Description: "how someone typically progresses from here"},
}

type insightResponse struct {
	Insights []roleInsight `json:"insights" validate:"dive"`
}

type roleInsight struct {
	Role       string   `json:"role" validate:"required"`
	Overview   string   `json:"overview" validate:"required"`
	Advantages []string `json:"advantages"`
	Challenges []string `json:"challenges"`
	CareerPath string   `json:"careerPath"`
}

// InsightWriter fills the insight section of recommendations.
type InsightWriter struct {
	client   Client
	tier     ModelTier
	validate *validator.Validate
}

// NewInsightWriter creates a writer that uses the standard tier.
func NewInsightWriter(client Client) *InsightWriter {
	return &InsightWriter{client: client, tier: TierStandard, validate: validator.New()}
}

// Enrich returns a copy of recs where every recommendation without an
// insight gets the one the model wrote for its role. Roles the model skips
// are left as they are.
func (w *InsightWriter) Enrich(ctx context.Context, skills []string, recs []types.CareerRecommendation) ([]types.CareerRecommendation, error) {
	out := append([]types.CareerRecommendation(nil), recs...)

	var roles []string
	for _, rec := range out {
		if rec.Insight.Empty() {
			roles = append(roles, rec.Role)
		}
	}
	if len(roles) == 0 {
		return out, nil
	}

	raw, err := w.client.GenerateJSON(ctx, buildInsightPrompt(skills, roles), w.tier)
	if err != nil {
		return out, fmt.Errorf("failed to generate insights: %w", err)
	}

	var resp insightResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &resp); err != nil {
		return out, fmt.Errorf("failed to parse insights: %w", err)
	}
	if err := w.validate.Struct(resp); err != nil {
		return out, fmt.Errorf("invalid insights: %w", err)
	}

	byRole := make(map[string]roleInsight, len(resp.Insights))
	for _, ins := range resp.Insights {
		key := strings.ToLower(strings.TrimSpace(ins.Role))
		if _, dup := byRole[key]; !dup {
			byRole[key] = ins
		}
	}

	for i := range out {
		if !out[i].Insight.Empty() {
			continue
		}
		ins, ok := byRole[strings.ToLower(out[i].Role)]
		if !ok {
			continue
		}
		out[i].Insight = &types.Insight{
			Overview:   ins.Overview,
			Advantages: ins.Advantages,
			Challenges: ins.Challenges,
			CareerPath: ins.CareerPath,
		}
	}
	return out, nil
}

func buildInsightPrompt(skills, roles []string) string {
	var fields strings.Builder
	for i, f := range insightFields {
		fmt.Fprintf(&fields, "  %q: %s // %s", f.Name, f.Type, f.Description)
		if i < len(insightFields)-1 {
			fields.WriteString(",")
		}
		fields.WriteString("\n")
	}

	var roleList strings.Builder
	for _, role := range roles {
		fmt.Fprintf(&roleList, "- %s\n", role)
	}

	return strings.Join([]string{
		prompts.MustGet(promptFile, "intro"),
		prompts.Format(prompts.MustGet(promptFile, "format"), map[string]string{"Fields": fields.String()}),
		prompts.Format(prompts.MustGet(promptFile, "request"), map[string]string{
			"Skills": strings.Join(skills, ", "),
			"Roles":  roleList.String(),
		}),
	}, "\n\n")
}
