package prompt

// builtinTemplates returns the four standard extraction templates.
func builtinTemplates() []Template {
	return []Template{
		{
			Name:        "company_profile",
			Description: "Extracts the company's basic identity and positioning.",
			SystemText: "You are a meticulous venture analyst. Extract only facts present " +
				"in the supplied documents. Respond with JSON matching the schema exactly.",
			UserTemplate: "Documents:\n{documents}\n\n" +
				"Extract the company profile: name, one-liner, sector, stage, founded year, location.",
			OutputSchema: `{"type":"object","properties":{"name":{"type":"string"},"oneLiner":{"type":"string"},"sector":{"type":"string"},"stage":{"type":"string"},"foundedYear":{"type":"integer"},"location":{"type":"string"}},"required":["name","sector"]}`,
			RequiredVars: []string{"documents"},
		},
		{
			Name:        "investment_metrics",
			Description: "Extracts revenue, traction, team, and funding metrics.",
			SystemText: "You are a financial analyst specializing in early-stage diligence. " +
				"Extract only figures explicitly present in the documents; do not invent numbers.",
			UserTemplate: "Documents:\n{documents}\n\n" +
				"Extract revenue (ARR, MRR, growth rate, gross margin), traction (customers, churn, NPS), " +
				"team (size, founders, burn rate, runway), and funding (total raised, last round, valuation, ask).",
			OutputSchema: `{"type":"object","properties":{"revenue":{"type":"object"},"traction":{"type":"object"},"team":{"type":"object"},"funding":{"type":"object"}}}`,
			RequiredVars: []string{"documents"},
		},
		{
			Name:        "market_claims",
			Description: "Extracts market-sizing and competitive claims.",
			SystemText:  "You are a market research analyst. Extract stated market-size figures and their basis.",
			UserTemplate: "Documents:\n{documents}\n\n" +
				"Extract TAM, SAM, SOM, named competitors, and growth drivers.",
			OutputSchema: `{"type":"object","properties":{"tam":{"type":"number"},"sam":{"type":"number"},"som":{"type":"number"},"competitors":{"type":"array"},"growthDrivers":{"type":"array"}}}`,
			RequiredVars: []string{"documents"},
		},
		{
			Name:        "team_assessment",
			Description: "Qualitatively assesses the founding/leadership team.",
			SystemText:  "You are an experienced operator evaluating founding teams for fit and gaps.",
			UserTemplate: "Documents:\n{documents}\n\n" +
				"Assess the team's strengths, gaps, relevant experience, and any notable advisors or hires.",
			OutputSchema: `{"type":"object","properties":{"strengths":{"type":"array"},"gaps":{"type":"array"},"experience":{"type":"string"},"notable":{"type":"array"}}}`,
			RequiredVars: []string{"documents"},
		},
	}
}
