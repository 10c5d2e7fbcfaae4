package narrative

import (
	"encoding/json"
	"fmt"

	"github.com/delphienergia/capex-backend/internal/compare"
)

const systemPrompt = "Eres un analista financiero experto en proyectos de energía solar. " +
	"Analizas diferencias CAPEX entre escenarios de presupuesto y respondes únicamente con JSON válido."

const responseSchema = `{
  "executive_summary": ["punto 1", "punto 2"],
  "main_drivers": [
    {"title": "...", "impact_cop": 0, "explanation": "..."}
  ],
  "root_causes": [
    {"cause": "price|quantity|scope|logistics|tax|aiu", "details": "..."}
  ],
  "red_flags": [
    {"severity": "high|med|low", "issue": "...", "why_it_matters": "..."}
  ],
  "recommended_actions": [
    {"action": "...", "expected_impact": "...", "who": "..."}
  ],
  "questions_to_validate": ["...", "..."]
}`

// buildPrompt renders the analysis request for one diff pack.
func buildPrompt(pack compare.DiffPack) (string, error) {
	payload, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Analiza las siguientes diferencias CAPEX entre dos escenarios de presupuesto.

DATOS DE COMPARACIÓN:
%s

Genera un análisis estructurado en JSON con este esquema exacto:
%s

IMPORTANTE: Retorna SOLO JSON válido, sin markdown, sin explicaciones adicionales.`, payload, responseSchema), nil
}
