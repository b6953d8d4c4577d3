package service

import (
	"strings"
	"testing"
	"time"
)

// sampleICS 两个不同场次 + 一个重复事件（周一 08:00 出现两次）
// 2026-09-07 为周一，2026-09-09 为周三
const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
UID:evt-1
SUMMARY:数据结构
DTSTART:20260907T080000
DTEND:20260907T100000
END:VEVENT
BEGIN:VEVENT
UID:evt-2
SUMMARY:数据结构
DTSTART:20260914T080000
DTEND:20260914T100000
END:VEVENT
BEGIN:VEVENT
UID:evt-3
SUMMARY:操作系统
DTSTART:20260909T140000
DTEND:20260909T160000
END:VEVENT
END:VCALENDAR
`

func TestParseICS(t *testing.T) {
	target := icsImportTarget{
		ClassroomID: "room-A",
		SubjectID:   "subj-1",
		TeacherID:   "teacher-1",
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
		EndDate:     time.Date(2026, 12, 20, 0, 0, 0, 0, time.Local),
	}

	sessions, err := ParseICS(strings.NewReader(sampleICS), target)
	if err != nil {
		t.Fatalf("ParseICS 应成功: %v", err)
	}

	// 周一 08:00 的两个事件去重为一个场次
	if len(sessions) != 2 {
		t.Fatalf("期望2个场次，实际=%d", len(sessions))
	}

	first := sessions[0]
	if first.DayOfWeek != 1 || first.StartTime != "08:00" || first.EndTime != "10:00" {
		t.Errorf("期望周一 08:00-10:00，实际: day=%d %s-%s", first.DayOfWeek, first.StartTime, first.EndTime)
	}
	if first.Source != "ics" {
		t.Errorf("期望 source=ics，实际=%s", first.Source)
	}
	if first.ClassroomID != "room-A" || first.TeacherID != "teacher-1" {
		t.Error("场次应绑定导入目标的教室与教师")
	}

	second := sessions[1]
	if second.DayOfWeek != 3 || second.StartTime != "14:00" || second.EndTime != "16:00" {
		t.Errorf("期望周三 14:00-16:00，实际: day=%d %s-%s", second.DayOfWeek, second.StartTime, second.EndTime)
	}
}

func TestParseICS_NoEndDefaultsTwoHours(t *testing.T) {
	const noEnd = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
UID:evt-1
SUMMARY:实验课
DTSTART:20260907T080000
END:VEVENT
END:VCALENDAR
`
	sessions, err := ParseICS(strings.NewReader(noEnd), icsImportTarget{})
	if err != nil {
		t.Fatalf("ParseICS 应成功: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("期望1个场次，实际=%d", len(sessions))
	}
	if sessions[0].EndTime != "10:00" {
		t.Errorf("无 DTEND 时应默认2小时，实际结束=%s", sessions[0].EndTime)
	}
}

func TestParseICS_Malformed(t *testing.T) {
	if _, err := ParseICS(strings.NewReader("not an ics file"), icsImportTarget{}); err == nil {
		t.Error("非法 ICS 内容应报错")
	}
}

func TestGoWeekdayToISO(t *testing.T) {
	if got := goWeekdayToISO(time.Monday); got != 1 {
		t.Errorf("周一期望1，实际=%d", got)
	}
	if got := goWeekdayToISO(time.Sunday); got != 7 {
		t.Errorf("周日期望7，实际=%d", got)
	}
}
