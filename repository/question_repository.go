package repository

import (
	"errors"
	"log"
	"sort"
	"sync"

	"aromatch/models"
)

// QuestionRepository defines the interface for the in-memory question bank.
type QuestionRepository interface {
	ReplaceQuestions(questions []models.Question) error
	GetQuestionByID(id string) (*models.Question, error)
	GetQuestionsByFlow(flow string) ([]models.Question, error)
	GetAllQuestions() ([]models.Question, error)
}

// questionRepository holds the loaded question bank in memory. The bank is
// replaced wholesale on (re)load and read concurrently by handlers.
type questionRepository struct {
	questions   map[string]models.Question
	flowIndex   map[string][]string
	muQuestions sync.RWMutex
}

// NewQuestionRepository creates a question repository instance.
func NewQuestionRepository() QuestionRepository {
	return &questionRepository{
		questions: make(map[string]models.Question),
		flowIndex: make(map[string][]string),
	}
}

// ReplaceQuestions swaps in a freshly loaded question bank.
func (r *questionRepository) ReplaceQuestions(questions []models.Question) error {
	r.muQuestions.Lock()
	defer r.muQuestions.Unlock()

	byID := make(map[string]models.Question, len(questions))
	flowIndex := make(map[string][]string)

	for _, q := range questions {
		if q.ID == "" {
			log.Printf("ERROR: [QuestionRepository] ReplaceQuestions: question with empty ID rejected.")
			return errors.New("question ID cannot be empty")
		}
		byID[q.ID] = q
		flowIndex[q.Flow] = append(flowIndex[q.Flow], q.ID)
	}

	r.questions = byID
	r.flowIndex = flowIndex
	log.Printf("INFO: [QuestionRepository] Loaded %d questions across %d flows.", len(byID), len(flowIndex))
	return nil
}

// GetQuestionByID retrieves one question definition.
func (r *questionRepository) GetQuestionByID(id string) (*models.Question, error) {
	r.muQuestions.RLock()
	defer r.muQuestions.RUnlock()

	q, exists := r.questions[id]
	if !exists {
		log.Printf("WARN: [QuestionRepository] GetQuestionByID: question '%s' not found.", id)
		return nil, nil
	}
	return &q, nil
}

// GetQuestionsByFlow retrieves all questions of a flow, ordered by their
// Order field.
func (r *questionRepository) GetQuestionsByFlow(flow string) ([]models.Question, error) {
	r.muQuestions.RLock()
	defer r.muQuestions.RUnlock()

	ids, exists := r.flowIndex[flow]
	if !exists || len(ids) == 0 {
		log.Printf("INFO: [QuestionRepository] GetQuestionsByFlow: no questions for flow '%s'.", flow)
		return nil, nil
	}

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.questions[id]; ok {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	return questions, nil
}

// GetAllQuestions retrieves every loaded question, ordered by flow then
// position.
func (r *questionRepository) GetAllQuestions() ([]models.Question, error) {
	r.muQuestions.RLock()
	defer r.muQuestions.RUnlock()

	questions := make([]models.Question, 0, len(r.questions))
	for _, q := range r.questions {
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Flow != questions[j].Flow {
			return questions[i].Flow < questions[j].Flow
		}
		return questions[i].Order < questions[j].Order
	})
	return questions, nil
}
