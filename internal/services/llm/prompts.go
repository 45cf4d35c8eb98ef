package llm

// Prompts are versioned constants. Change only with a matching bump of the
// prompt version string recorded alongside each constant.

// StructurePromptVersion identifies the structural analysis prompt in logs.
const StructurePromptVersion = "structure/v1"

// StructurePrompt asks the model for non-opinionated structural elements of
// a transcript. No summarization, no quality judgment.
const StructurePrompt = `You are an expert content analyst. Analyze the following YouTube video transcript and extract only structural elements.
Do not summarize, interpret, or judge quality.

Extract:
- sections: major timed or topical sections (use chapter titles if available, else infer from headings/transitions)
- entities: people, tools, products, frameworks, concepts, organizations mentioned
- references: URLs, books, papers, other videos/channels explicitly mentioned
- detected_steps: ordered procedural steps if present (e.g., tutorials)
- code_blocks_present: true if any code is shown or discussed

Respond with valid JSON only, matching this schema exactly:
{
  "sections": [{"start_time": number or null, "title": string}],
  "entities": [string],
  "references": [string],
  "detected_steps": [string],
  "code_blocks_present": boolean
}

Rules:
- sections: use chapter timestamps if present; otherwise null start_time
- entities/references/steps: max 50 items each
- no explanations, no markdown, no extra fields`

// SemanticsPromptVersion identifies the classification prompt in logs.
const SemanticsPromptVersion = "semantics/v1"

// SemanticsPrompt asks the model for light descriptive classification of a
// video from its title, description, and a transcript sample.
const SemanticsPrompt = `You are an expert content classifier. Analyze the YouTube video based on title, description, and transcript.

Classify only these attributes:
- primary_topics: 3-7 main topics (most central)
- secondary_topics: 0-5 additional notable topics
- content_type: one of [tutorial, explanation, interview, review, opinion, demonstration, vlog, news, entertainment, other]
- difficulty_level: one of [beginner, intermediate, advanced]
- knowledge_type: one of [conceptual, procedural, mixed]

Rules:
- Be objective and evidence-based
- No commentary or summary
- Respond with valid JSON only, exact schema:
{
  "primary_topics": [string],
  "secondary_topics": [string],
  "content_type": string,
  "difficulty_level": string,
  "knowledge_type": string
}`
