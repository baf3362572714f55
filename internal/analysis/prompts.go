package analysis

import "fmt"

func classifySystemPrompt(p Profile) string {
	return fmt.Sprintf("You are an expert in local and global agricultural markets in %s.", p.Country)
}

func classifyUserPrompt(p Profile, headline string) string {
	return fmt.Sprintf(
		"Determine if the following headline is relevant to %s supply, demand, or pricing. "+
			"Respond with exactly 'Relevant' or 'Irrelevant'.\n\nHeadline: %s",
		p.Commodity, headline)
}

func extractSystemPrompt(p Profile) string {
	return fmt.Sprintf(
		"You are an expert in agricultural markets in %[1]s. You help decision makers at %[2]s in %[1]s. "+
			"%[2]s purchases raw %[3]s from different districts in %[1]s and processes it for sale. "+
			"The product is sold to local distributors and exported to markets in %[4]s. "+
			"Your goal is to analyze news from different sources and identify key insights and implications "+
			"about %[3]s supply, demand, and pricing. "+
			"If no insights have been provided to you return a blank response.",
		p.Country, p.Company, p.Commodity, p.Markets)
}

func extractUserPrompt(p Profile, body string) string {
	return fmt.Sprintf(
		"Analyse the following article to identify potential implications for %[1]s on %[2]s supply, "+
			"demand and price globally and locally. Your response should be to the point and in one paragraph "+
			"of no more than %[3]d words. Your analysis will be used by executives at %[1]s to make decisions "+
			"around purchase of more raw materials and increasing or decreasing production. "+
			"Take special note that you cannot mention anything about changing the product.\n\n%[4]s",
		p.Company, p.Commodity, p.InsightWords, body)
}

func summarySystemPrompt(p Profile) string {
	return fmt.Sprintf("You are an expert in summarizing insights for executives at %s.", p.Company)
}

func summaryUserPrompt(p Profile, joined string) string {
	return fmt.Sprintf(
		"Combine the following insights into a concise, high-level summary (TL;DR) that can be read in 30 seconds. "+
			"Focus on key takeaways and potential implications for %s. "+
			"If you are not provided any insights return a blank response.\n\n%s",
		p.Company, joined)
}
