package biz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lk2023060901/model-search-assistant/internal/assistant/types"
	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
)

const descriptionSystemPrompt = "You are an expert Machine Learning Model Agent. Your role is to analyze provided Hugging Face model data and a user's search query. Based on this, provide a concise, 2-3 sentence expert description. Focus strictly on the model's technical capabilities, performance metrics (like downloads and likes), and its most ideal use cases relevant to the user's query. Be technical but accessible. Do not invent information not present in the provided data."

// DescriptionPrompts 构造模型描述的 system/user 提示词
func DescriptionPrompts(m *mstypes.ModelRecord, query string) (system, user string) {
	task := orDefault(m.PipelineTag, "Unknown")
	library := orDefault(m.LibraryName, "transformers")
	license := orDefault(m.License(), "N/A")

	var b strings.Builder
	b.WriteString("Analyze this model based on the data below:\n\n")
	b.WriteString("MODEL INFO:\n")
	fmt.Fprintf(&b, "- ID: %s\n", m.ID)
	fmt.Fprintf(&b, "- Task: %s\n", task)
	fmt.Fprintf(&b, "- Downloads: %s\n", formatNumber(m.Downloads))
	fmt.Fprintf(&b, "- Likes: %s\n", formatNumber(m.Likes))
	fmt.Fprintf(&b, "- Library: %s\n", library)
	fmt.Fprintf(&b, "- License: %s\n\n", license)
	fmt.Fprintf(&b, "USER SEARCH: \"%s\"\n\n", query)
	b.WriteString("Provide your expert analysis based only on the information given.")

	return descriptionSystemPrompt, b.String()
}

// ConversationPrompts 构造追问对话的提示词，只允许讨论给定的模型
func ConversationPrompts(question string, history []types.ChatMessage, models []mstypes.ModelRecord) (system, user string) {
	var b strings.Builder
	b.WriteString("You are a highly specialized AI assistant for exploring Hugging Face models. ")
	b.WriteString("Your ONLY function is to answer questions based on the provided list of models and conversation history. ")
	b.WriteString("Do not answer any questions that are not directly related to these models. ")
	fmt.Fprintf(&b, "If the user asks an off-topic question, politely decline by saying '%s'\n\n", types.ReplyOffTopic)

	b.WriteString("Here is the list of models the user is looking at:\n")
	b.WriteString(ModelLines(models))
	b.WriteString("\n\nHere is the recent conversation history:\n")
	b.WriteString(HistoryLines(history))
	b.WriteString("\n\nBased strictly on the provided context, answer the user's latest question.")

	return b.String(), fmt.Sprintf("User's question: \"%s\"", question)
}

// ModelLines "- id (Task: ..., Downloads: ...)"，每个模型一行
func ModelLines(models []mstypes.ModelRecord) string {
	lines := make([]string, len(models))
	for i := range models {
		lines[i] = fmt.Sprintf("- %s (Task: %s, Downloads: %s)",
			models[i].ID, orDefault(models[i].PipelineTag, "unknown"), formatNumber(models[i].Downloads))
	}
	return strings.Join(lines, "\n")
}

// HistoryLines "type: content"，每条消息一行
func HistoryLines(history []types.ChatMessage) string {
	lines := make([]string, len(history))
	for i, h := range history {
		lines[i] = historyLine(h)
	}
	return strings.Join(lines, "\n")
}

func historyLine(h types.ChatMessage) string {
	return fmt.Sprintf("%s: %s", h.Type, h.Content)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
