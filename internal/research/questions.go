package research

import (
	"fmt"

	"github.com/ppiankov/jtbd/internal/model"
)

func generalQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("Can you tell me about the last time you used/experienced %s?", topic),
		fmt.Sprintf("What were you trying to accomplish when you used %s?", topic),
		fmt.Sprintf("What prompted you to look for a solution like %s?", topic),
		fmt.Sprintf("What alternatives did you consider before choosing %s?", topic),
		fmt.Sprintf("What does a successful outcome look like when you use %s?", topic),
		fmt.Sprintf("What frustrations or challenges do you face when using %s?", topic),
		fmt.Sprintf("How do you measure success when using %s?", topic),
		fmt.Sprintf("How has using %s changed your routine or process?", topic),
		fmt.Sprintf("If %s wasn't available, what would you do instead?", topic),
		fmt.Sprintf("What improvement to %s would make the biggest difference for you?", topic),
	}
}

func functionalQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("What specific tasks are you trying to complete with %s?", topic),
		fmt.Sprintf("How do you know when %s has successfully helped you accomplish your goal?", topic),
		fmt.Sprintf("What features or capabilities are most important to you when using %s?", topic),
		fmt.Sprintf("What steps or processes related to %s take too much time or effort?", topic),
		fmt.Sprintf("What problems does %s solve for you?", topic),
	}
}

func emotionalQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("How do you feel before, during, and after using %s?", topic),
		fmt.Sprintf("What worries or concerns do you have when using %s?", topic),
		fmt.Sprintf("What aspects of %s give you confidence or peace of mind?", topic),
		fmt.Sprintf("What emotions would you associate with your experience using %s?", topic),
		fmt.Sprintf("What would make you feel more satisfied with your %s experience?", topic),
	}
}

func socialQuestions(topic string) []string {
	return []string{
		fmt.Sprintf("How does using %s impact how others perceive you?", topic),
		fmt.Sprintf("Do you discuss your use of %s with others? What do you share?", topic),
		fmt.Sprintf("How important is it that others know you use %s?", topic),
		fmt.Sprintf("Has using %s affected your relationships or social interactions?", topic),
		fmt.Sprintf("Are there social expectations around using %s in your community or workplace?", topic),
	}
}

var agreementScale = []string{"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree"}

var importanceScale = []string{
	"Not at all important", "Slightly important", "Moderately important", "Very important", "Extremely important",
}

func surveyQuestions(topic string) []model.SurveyQuestion {
	return []model.SurveyQuestion{
		{
			Question: fmt.Sprintf("How often do you use %s?", topic),
			Type:     model.QuestionMultipleChoice,
			Options:  []string{"Daily", "Weekly", "Monthly", "Rarely", "Never"},
		},
		{
			Question: fmt.Sprintf("What is your primary reason for using %s?", topic),
			Type:     model.QuestionMultipleChoice,
			Options:  []string{"To save time", "To save money", "For convenience", "For quality", "Other (please specify)"},
		},
		{
			Question: fmt.Sprintf("How satisfied are you with your current %s solution?", topic),
			Type:     model.QuestionScale,
			Options:  []string{"Very dissatisfied", "Somewhat dissatisfied", "Neutral", "Somewhat satisfied", "Very satisfied"},
		},
		{
			Question: fmt.Sprintf("Which of the following best describes how you feel when using %s?", topic),
			Type:     model.QuestionMultipleChoice,
			Options:  []string{"Frustrated", "Anxious", "Neutral", "Satisfied", "Delighted"},
		},
		{
			Question: fmt.Sprintf("How likely are you to recommend %s to a friend or colleague?", topic),
			Type:     model.QuestionScale,
			Options: []string{
				"0 - Not at all likely", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10 - Extremely likely",
			},
		},

		{Question: fmt.Sprintf("%s helps me accomplish my goals efficiently.", topic), Type: model.QuestionLikert, Options: agreementScale},
		{Question: fmt.Sprintf("Using %s makes me feel confident.", topic), Type: model.QuestionLikert, Options: agreementScale},
		{Question: fmt.Sprintf("Others respect me for my choice to use %s.", topic), Type: model.QuestionLikert, Options: agreementScale},
		{Question: fmt.Sprintf("I often feel frustrated when using %s.", topic), Type: model.QuestionLikert, Options: agreementScale},
		{Question: fmt.Sprintf("Using %s saves me time compared to alternatives.", topic), Type: model.QuestionLikert, Options: agreementScale},

		{Question: fmt.Sprintf("What are you trying to accomplish when you use %s?", topic), Type: model.QuestionOpenEnded},
		{Question: fmt.Sprintf("What is the most frustrating aspect of using %s?", topic), Type: model.QuestionOpenEnded},
		{Question: fmt.Sprintf("How would you describe your ideal experience with %s?", topic), Type: model.QuestionOpenEnded},
		{Question: fmt.Sprintf("What would make you switch from %s to an alternative?", topic), Type: model.QuestionOpenEnded},
		{
			Question: fmt.Sprintf("What other solutions have you tried instead of %s, and why did you choose %s?", topic, topic),
			Type:     model.QuestionOpenEnded,
		},
	}
}

// goalSurveyQuestion returns the follow-up survey question for a goal about one job type
func goalSurveyQuestion(topic string, jobType model.JobType) model.SurveyQuestion {
	switch jobType {
	case model.JobEmotional:
		return model.SurveyQuestion{
			Question: fmt.Sprintf("How does using %s make you feel?", topic),
			Type:     model.QuestionOpenEnded,
		}
	case model.JobSocial:
		return model.SurveyQuestion{
			Question: fmt.Sprintf("How important is it that others know you use %s?", topic),
			Type:     model.QuestionScale,
			Options:  importanceScale,
		}
	default:
		return model.SurveyQuestion{
			Question: fmt.Sprintf("What tasks do you most commonly use %s for?", topic),
			Type:     model.QuestionOpenEnded,
		}
	}
}
