package biz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lk2023060901/model-search-assistant/internal/assistant/types"
	mstypes "github.com/lk2023060901/model-search-assistant/internal/modelsearch/types"
)

type descriptionTemplate func(name string, m *mstypes.ModelRecord) string

var fallbackTemplates = map[types.Task]descriptionTemplate{
	types.TaskTextGeneration: func(name string, m *mstypes.ModelRecord) string {
		return fmt.Sprintf("%s is a state-of-the-art language model optimized for natural text generation, conversation, and content creation. With %s downloads, it demonstrates proven reliability for production applications requiring human-like text output.", name, FormatCount(m.Downloads))
	},
	types.TaskTextToImage: func(name string, m *mstypes.ModelRecord) string {
		return fmt.Sprintf("%s is an advanced diffusion model that generates high-quality images from textual descriptions. This model excels in creative visual generation and has earned %s community endorsements for its artistic capabilities and prompt adherence.", name, strconv.FormatFloat(m.Likes, 'f', -1, 64))
	},
	types.TaskTextClassification: func(name string, _ *mstypes.ModelRecord) string {
		return name + " is a robust neural classifier designed for accurate text categorization, sentiment analysis, and content filtering. Its proven architecture delivers consistent performance across diverse classification tasks with enterprise-grade reliability."
	},
	types.TaskQuestionAnswering: func(name string, _ *mstypes.ModelRecord) string {
		return name + " is a sophisticated reading comprehension model that extracts precise answers from contextual documents. With strong community validation, it excels in knowledge extraction, document Q&A, and information retrieval applications."
	},
	types.TaskSummarization: func(name string, _ *mstypes.ModelRecord) string {
		return name + " is an intelligent text summarization model that condenses complex documents while preserving critical information. Its balanced approach to content reduction makes it valuable for research, news analysis, and document processing workflows."
	},
	types.TaskTranslation: func(name string, _ *mstypes.ModelRecord) string {
		return name + " is a multilingual neural translation model supporting high-quality cross-language communication. This model demonstrates excellent semantic preservation and cultural context awareness across diverse language pairs."
	},
}

var useCases = map[types.Task][]string{
	types.TaskTextGeneration:     {"Conversational AI & Chatbots", "Content Creation & Copywriting", "Code Generation & Programming", "Educational Content & Tutoring"},
	types.TaskTextToImage:        {"Digital Art & Creative Design", "Marketing & Social Media Content", "Product Visualization & Mockups", "Game Assets & Concept Art"},
	types.TaskTextClassification: {"Sentiment Analysis & Opinion Mining", "Content Moderation & Safety", "Email Filtering & Organization", "Business Intelligence & Analytics"},
	types.TaskQuestionAnswering:  {"Knowledge Base & FAQ Systems", "Educational Q&A Platforms", "Enterprise Document Search", "Legal & Compliance Research"},
	types.TaskSummarization:      {"News & Article Summarization", "Meeting Notes & Reports", "Research Paper Analysis", "Business Document Processing"},
	types.TaskTranslation:        {"Website & App Localization", "Document Translation Services", "Real-time Communication", "International Business Support"},
}

var genericUseCases = []string{"General AI Processing", "Automated Analysis", "Data Processing", "Content Enhancement"}

// FallbackDescription 无法调用 LLM 时的固定描述
func FallbackDescription(m *mstypes.ModelRecord) string {
	name := m.Name()
	if task, ok := types.ParseTask(m.PipelineTag); ok {
		return fallbackTemplates[task](name, m)
	}

	task := m.PipelineTag
	if task == "" {
		task = "general"
	}
	// 只替换第一个连字符
	return fmt.Sprintf("%s is a specialized AI model for %s applications, offering reliable performance with community-validated results for your machine learning projects.",
		name, strings.Replace(task, "-", " ", 1))
}

// BuildInsights 下载量、点赞数分档和典型用途
func BuildInsights(m *mstypes.ModelRecord) types.Insights {
	insights := types.Insights{
		Popularity:      popularity(m.Downloads),
		CommunityRating: communityRating(m.Likes),
		UseCases:        genericUseCases,
	}
	if task, ok := types.ParseTask(m.PipelineTag); ok {
		insights.UseCases = useCases[task]
	}
	return insights
}

func popularity(downloads float64) string {
	switch {
	case downloads > 5_000_000:
		return "Industry Standard"
	case downloads > 1_000_000:
		return "Very Popular"
	case downloads > 100_000:
		return "Popular"
	case downloads > 10_000:
		return "Growing"
	}
	return "Emerging"
}

func communityRating(likes float64) string {
	switch {
	case likes > 2000:
		return "Exceptional"
	case likes > 1000:
		return "Excellent"
	case likes > 500:
		return "Very Good"
	}
	return "Good"
}

// FormatCount 1234567 -> 1.2M, 1500 -> 1.5K
func FormatCount(n float64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(n/1_000_000, 'f', 1, 64) + "M"
	case n >= 1000:
		return strconv.FormatFloat(n/1000, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
