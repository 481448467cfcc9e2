package generator

import "strings"

// Request 描述一次提交的表单内容。
type Request struct {
	Category      string `json:"category"`
	Goal          string `json:"goal"`
	Theme         string `json:"theme,omitempty"`
	UserIdea      string `json:"userIdea,omitempty"`
	ReferenceLink string `json:"referenceLink,omitempty"`
}

// Normalize 去掉各字段首尾空白。
func (r Request) Normalize() Request {
	return Request{
		Category:      strings.TrimSpace(r.Category),
		Goal:          strings.TrimSpace(r.Goal),
		Theme:         strings.TrimSpace(r.Theme),
		UserIdea:      strings.TrimSpace(r.UserIdea),
		ReferenceLink: strings.TrimSpace(r.ReferenceLink),
	}
}

// Validate reports the required fields that are blank.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Goal) == "" {
		missing = append(missing, "goal")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Hook is the opening of the script plus an image query that illustrates it.
type Hook struct {
	Text             string `json:"texto"`
	ImageSearchQuery string `json:"busqueda_imagen_referencia"`
}

// Script splits a Reel into hook, development and call to action.
type Script struct {
	Hook         Hook   `json:"gancho"`
	Development  string `json:"desarrollo"`
	CallToAction string `json:"cta"`
}

// PostIdea 是模型产出的一条 Reel 创意。
type PostIdea struct {
	Title            string   `json:"titulo"`
	Script           Script   `json:"guion"`
	Hashtags         []string `json:"hashtags"`
	VisualSuggestion string   `json:"sugerencia_visual"`
}

// IdeasResponse holds the three named slots returned by the model.
type IdeasResponse struct {
	Idea1 PostIdea `json:"idea_1"`
	Idea2 PostIdea `json:"idea_2"`
	Idea3 PostIdea `json:"idea_3"`
}

// Ideas returns the slots in display order.
func (r IdeasResponse) Ideas() []PostIdea {
	return []PostIdea{r.Idea1, r.Idea2, r.Idea3}
}
