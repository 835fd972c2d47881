package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and workflows

const (
	TranscriptExtractDescription = `Extract structured car-sales fields from customer conversation transcripts.

**When to use:** You have a showroom call, chat log or meeting note (typed text, .txt or .pdf) and need the customer's requirements, the policies that were discussed and the objections raised.

**How it works:** Files are read in the order given, free text is appended last, and the combined text is lowercased with punctuation removed. Fifteen fixed keyword rules then each record the first phrase they find. Fields with no match are null.

**Examples:**
• Typed notes: text="Customer wants a red SUV, automatic, 20,000 km" → CarType "suv", Color "red", TransmissionType "automatic", DistanceTravelled "20000 km"
• A recorded call: paths=["calls/monday-0931.pdf"]
• Notes split across files: paths=["visit.txt", "followup.pdf"], text="also asked about the return policy"

**Output:** JSON (default) or YAML with three groups: CustomerRequirements, CompanyPoliciesDiscussed and CustomerObjections (which nests CustomerExperienceIssues). A second block lists each source and any diagnostics, such as unreadable PDF pages.

**Best practices:** Matching is literal keyword matching, so "5-day" is seen as "5day" and "20,000" as "20000". Use transcript_normalize to see the exact text the rules run against.`

	TranscriptNormalizeDescription = `Show text exactly as the extraction rules see it.

**When to use:** A field you expected is null, or you want to understand why a phrase matched.

**How it works:** Uppercase ASCII letters are lowercased, every run of whitespace becomes a single space, and everything except a-z, 0-9 and space is removed.

**Examples:**
• "Hello,   WORLD!" → "hello world"
• "5-Day Money-Back Guarantee" → "5day moneyback guarantee"

**Best practices:** Compare the output with transcript_rules patterns when debugging a missing field.`

	TranscriptPDFTextDescription = `Read the text layer of a PDF transcript with per-page diagnostics.

**When to use:** Check what a PDF actually contributes before extracting from it, especially scanned or damaged documents.

**How it works:** Pages are read in order and joined without separators. Pages with no text and pages that fail to parse are reported as diagnostics instead of failing the call. Page count, PDF version and encryption are reported when the document structure can be read.

**Examples:**
• "What text is in calls/tuesday.pdf?"
• "Why did extraction from scan-004.pdf return all nulls?"

**Best practices:** Scanned PDFs without a text layer return empty text. There is no OCR.`

	TranscriptSearchDirectoryDescription = `Find .txt and .pdf transcripts in the configured directory.

**When to use:** Discover which transcripts are available before extracting from them.

**How it works:** Walks the directory tree, skipping hidden directories and symlinks, and lists files with an accepted extension. An optional query matches file names case-insensitively, word by word.

**Examples:**
• List everything: no arguments
• Find calls from a day: query="monday"
• Narrow by words: query="showroom call"

**Best practices:** Pass the returned paths straight to transcript_extract.`

	TranscriptRulesDescription = `List every extraction rule, its pattern and where its result lands.

**When to use:** Understand which keywords fill which field, or explain an extraction result.

**Output:** One entry per field in evaluation order, with the regular expression applied to normalized text and the dotted result path such as CustomerObjections.CustomerExperienceIssues.LongWaitTime.`

	TranscriptServerInfoDescription = `Get server status, available tools, transcripts on disk and usage guidance.

**When to use:** First call in a session, to learn the configured directory, size limits and which transcripts exist.

**Output:** Server name and version, default directory, maximum file size, accepted file types, output formats, the number of rules and up to 100 transcripts found in the default directory.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"transcript_extract":          TranscriptExtractDescription,
	"transcript_normalize":        TranscriptNormalizeDescription,
	"transcript_pdf_text":         TranscriptPDFTextDescription,
	"transcript_search_directory": TranscriptSearchDirectoryDescription,
	"transcript_rules":            TranscriptRulesDescription,
	"transcript_server_info":      TranscriptServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
