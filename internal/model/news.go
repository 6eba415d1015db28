package model

import "time"

type News struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	Date  time.Time `json:"date"`
}
