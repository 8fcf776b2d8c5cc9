// Package quiz implements the quiz session engine: building questions
// from vocabulary content, driving a user's session one question at a
// time over a stateless delivery channel, correlating asynchronous
// answer events back to pending questions, and rate limiting automatic
// quizzes per calendar day.
package quiz
