package chat

import (
	"fmt"
	"strings"
)

const standingPrompt = "You are a teacher teaching Chinese to an English speaker. Be supportive and pedagogical. Use only the vocabulary words provided."

const hsk2Instruction = " You may also use any HSK2 vocabulary."

const yesNoSystemPrompt = "Answer only yes or no."

// randomTopicPrompt replaces placeholder first messages so the model
// invents a topic instead of echoing "hi".
const randomTopicPrompt = "discuss a random topic"

func vocabBlock(vocabList []string) string {
	if len(vocabList) == 0 {
		return ""
	}
	return fmt.Sprintf("Use ONLY these Chinese words in your responses: %s.", strings.Join(vocabList, ", "))
}

// buildPrimingPrompt conditions the model for a brand-new conversation;
// its reply is discarded.
func buildPrimingPrompt(vocabList []string) string {
	return fmt.Sprintf("%s\n\n%s%s\n\nRespond to the next prompt in Chinese using words in this vocabulary and all HSK2 words.",
		standingPrompt, vocabBlock(vocabList), hsk2Instruction)
}

const primingUserPrompt = "Respond to the next prompt in Chinese using words in this vocabulary and all HSK2 words. Acknowledge by replying with exactly: Acknowledged."

// buildFirstReplyPrompt is the system prompt for the opening assistant
// message of a new conversation.
func buildFirstReplyPrompt(vocabList []string, topic string) string {
	topicPart := "The user did not specify a topic; use a general conversation theme."
	if strings.TrimSpace(topic) != "" {
		topicPart = fmt.Sprintf("The user has requested a topic or theme (in English): %q.", topic)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s%s\n\nYou MUST reply with your first message in Chinese. Greet the user and start the conversation (e.g. introduce the topic and ask a first question). Respond in Chinese only.",
		standingPrompt, topicPart, vocabBlock(vocabList), hsk2Instruction)
}

// buildContinuationPrompt instructs the model to grade the user in-band
// and append the misused-word block the parser looks for.
func buildContinuationPrompt(vocabList []string) string {
	return fmt.Sprintf(`%s

You are continuing a conversation. For each user message you must do TWO things in order:

1. First, evaluate the user's answer for correctness. Output this evaluation clearly (e.g. whether their answer is correct or incorrect, what was wrong or what was good, brief feedback).

2. Then, respond conversationally in Chinese: continue the dialogue, ask a follow-up question, or give encouragement, using ONLY the vocabulary words listed below.

When you correct the user's answer, at the END of your message add a JSON block on a new line with the list of Chinese words they used incorrectly, e.g.:
{"misused_words": ["词1", "词2"]}
If no words were misused, use: {"misused_words": []}

%s%s

Respond in Chinese.`, standingPrompt, vocabBlock(vocabList), hsk2Instruction)
}

// buildCorrectnessPrompt asks a strict yes/no judgment of the latest user
// sentence given recent context.
func buildCorrectnessPrompt(recent []TurnMessage, latest string) string {
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		lines = append(lines, fmt.Sprintf("[%s]: %s", m.Role, m.Content))
	}
	return fmt.Sprintf("Conversation:\n%s\n\nis the following sentence correct and meaningful in the context of the conversation? answer just yes or no: %s",
		strings.Join(lines, "\n"), latest)
}
