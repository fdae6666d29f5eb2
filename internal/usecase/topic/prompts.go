package topic

const (
	extractInstruction = "Extract the topics from the given text make sure to take only topics and not just headers."
	extractInput       = "text"
	extractOutput      = "topics"

	matchInstruction = "Match the given material to its most relevant topics, " +
		"try to be as specific as possible and merge similar topics."
	matchMaterialInput = "material"
	matchTopicsInput   = "topics"
	matchOutput        = "matched_topics"
	matchOutputDesc    = "The most relevant topics to the given material from the given list of topics."
)
