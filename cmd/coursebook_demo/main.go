package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/url"
	"strconv"
	"time"

	"coursebook/api/websocket"

	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	seq  int
}

// call 发送请求并等待同一 requestId 的响应，忽略推送消息
func (c *client) call(msgType string, payload, out any) error {
	c.seq++
	reqID := strconv.Itoa(c.seq)

	msg := protocol.Message{Type: msgType, RequestID: reqID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		msg.Data = raw
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s: %w", msgType, err)
	}

	for {
		c.conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		var resp protocol.Message
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("read %s: %w", msgType, err)
		}
		if resp.RequestID != reqID {
			continue
		}
		if resp.Type == protocol.ErrorMessage {
			var e protocol.ErrorResponse
			_ = json.Unmarshal(resp.Data, &e)
			return fmt.Errorf("%s failed with code %d: %s", msgType, resp.Code, e.Detail)
		}
		if out == nil {
			return nil
		}
		return json.Unmarshal(resp.Data, out)
	}
}

func main() {
	addr := flag.String("addr", "127.0.0.1:9090", "coursebook server address")
	flag.Parse()

	// 构建 WebSocket URL
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: "deviceCode=coursebook-demo"}
	log.Printf("connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	if err := run(&client{conn: conn}); err != nil {
		log.Fatalf("demo: %v", err)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func run(c *client) error {
	const courseName = "Course 1"
	var created protocol.IDResponse
	if err := c.call(protocol.CourseCreateMessage, protocol.CreateCourseRequest{Name: courseName}, &created); err != nil {
		return err
	}
	courseID := created.ID
	log.Printf("Created course: %s with ID: %s", courseName, courseID)

	for studentID := int64(1); studentID <= 5; studentID++ {
		var res protocol.ResultResponse
		if err := c.call(protocol.StudentEnrollMessage, protocol.StudentRequest{CourseID: courseID, StudentID: studentID}, &res); err != nil {
			return err
		}
		log.Printf("Enrolled student %d: %t", studentID, res.Success)
	}

	assignmentIDs := make([]string, 0, 3)
	assignmentNames := make(map[string]string, 3)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("Assignment %d", i)
		var res protocol.IDResponse
		if err := c.call(protocol.AssignmentCreateMessage, protocol.CreateAssignmentRequest{CourseID: courseID, Name: name}, &res); err != nil {
			return err
		}
		assignmentIDs = append(assignmentIDs, res.ID)
		assignmentNames[res.ID] = name
		log.Printf("Created assignment: %s with ID: %s", name, res.ID)
	}

	for studentID := int64(1); studentID <= 5; studentID++ {
		for _, assignmentID := range assignmentIDs {
			grade := rand.IntN(101)
			var res protocol.ResultResponse
			req := protocol.SubmitRequest{CourseID: courseID, StudentID: studentID, AssignmentID: assignmentID, Grade: &grade}
			if err := c.call(protocol.AssignmentSubmitMessage, req, &res); err != nil {
				return err
			}
			log.Printf("Submitted assignment %s for student %d with grade %d: %t", assignmentNames[assignmentID], studentID, grade, res.Success)
		}
	}

	for _, assignmentID := range assignmentIDs {
		var avg protocol.AverageResponse
		if err := c.call(protocol.AssignmentAverageMessage, protocol.AssignmentRequest{CourseID: courseID, AssignmentID: assignmentID}, &avg); err != nil {
			return err
		}
		log.Printf("Average grade for assignment %s: %d", assignmentNames[assignmentID], avg.Average)
	}

	for studentID := int64(1); studentID <= 5; studentID++ {
		var avg protocol.AverageResponse
		if err := c.call(protocol.StudentAverageMessage, protocol.StudentRequest{CourseID: courseID, StudentID: studentID}, &avg); err != nil {
			return err
		}
		log.Printf("Average grade for student %d: %d", studentID, avg.Average)
	}

	var top protocol.TopStudentsResponse
	if err := c.call(protocol.TopStudentsMessage, protocol.CourseRequest{CourseID: courseID}, &top); err != nil {
		return err
	}
	log.Printf("Top five students in course %s: %v", courseID, top.Students)
	return nil
}
