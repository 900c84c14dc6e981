package dto

import (
	"time"

	"github.com/yukikurage/business-management-api/internal/models"
)

// ScoreDTO represents a task score in API responses
type ScoreDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	EmployeeID uint64    `json:"employee_id"`
	InTime     int       `json:"in_time"`
	Integrity  int       `json:"integrity"`
	Quality    int       `json:"quality"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedBy   uint64            `json:"created_by"`
	Assignee    uint64            `json:"assignee"`
	Status      models.TaskStatus `json:"status"`
	Deadline    time.Time         `json:"deadline"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Score       *ScoreDTO         `json:"score,omitempty"`
}

type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	CreatedBy uint64    `json:"created_by"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreReportDTO is the caller's score summary.
type ScoreReportDTO struct {
	EmployeeID uint64     `json:"employee_id"`
	Average    float64    `json:"average"`
	Scores     []ScoreDTO `json:"scores"`
}

// Conversion functions

func ToScoreDTO(score models.Score) ScoreDTO {
	return ScoreDTO{
		ID:         score.ID,
		TaskID:     score.TaskID,
		EmployeeID: score.EmployeeID,
		InTime:     score.InTime,
		Integrity:  score.Integrity,
		Quality:    score.Quality,
		CreatedAt:  score.CreatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		CreatedBy:   task.CreatedBy,
		Assignee:    task.Assignee,
		Status:      task.Status,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Score != nil {
		score := ToScoreDTO(*task.Score)
		dto.Score = &score
	}
	return dto
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		CreatedBy: comment.CreatedBy,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func ToScoreReportDTO(employeeID uint64, average float64, scores []models.Score) ScoreReportDTO {
	out := make([]ScoreDTO, len(scores))
	for i, s := range scores {
		out[i] = ToScoreDTO(s)
	}
	return ScoreReportDTO{EmployeeID: employeeID, Average: average, Scores: out}
}
