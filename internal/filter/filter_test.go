package filter_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/filter"
)

func TestFilter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Filter Suite")
}

type record struct {
	ID    int64
	Name  string
	Kind  string
	Day   calendar.Date
	Other string
}

func recordID(r record) int64          { return r.ID }
func recordName(r record) string       { return r.Name }
func recordOther(r record) string      { return r.Other }
func recordKind(r record) string       { return r.Kind }
func recordDay(r record) calendar.Date { return r.Day }

var _ = Describe("Filter Engine", func() {
	var items []record

	BeforeEach(func() {
		items = []record{
			{ID: 3, Name: "José Pérez", Kind: "Entrada", Day: calendar.MustParseDate("2024-03-06")},
			{ID: 1, Name: "Ana López", Kind: "Salida", Day: calendar.MustParseDate("2024-03-01"), Other: "Visita Pérez"},
			{ID: 2, Name: "Luis Gómez", Kind: "Entrada", Day: calendar.MustParseDate("2024-02-20")},
		}
	})

	Describe("Apply", func() {
		It("returns the input unchanged when there are no predicates", func() {
			out := filter.Apply(items)
			Expect(out).To(Equal(items))
			Expect(&out[0]).To(BeIdenticalTo(&items[0]))
		})

		It("ignores inactive predicates", func() {
			out := filter.Apply(items, nil, filter.Text[record]("", recordName))
			Expect(out).To(Equal(items))
		})

		It("ANDs the active predicates and keeps input order", func() {
			out := filter.Apply(items,
				filter.Equal("Entrada", recordKind),
				filter.Text("e", recordName),
			)
			Expect(out).To(HaveLen(2))
			Expect(out[0].ID).To(Equal(int64(3)))
			Expect(out[1].ID).To(Equal(int64(2)))
		})

		It("short-circuits after the first failing predicate", func() {
			calls := 0
			counting := func(record) bool { calls++; return true }
			filter.Apply(items, func(record) bool { return false }, counting)
			Expect(calls).To(Equal(0))
		})
	})

	Describe("Text", func() {
		It("searches several fields ignoring accents", func() {
			out := filter.Apply(items, filter.Text("PEREZ", recordName, recordOther))
			Expect(out).To(HaveLen(2))
		})
	})

	Describe("Any and All", func() {
		It("combines predicates", func() {
			either := filter.Any(filter.Equal("Salida", recordKind), filter.Text("luis", recordName))
			Expect(filter.Apply(items, either)).To(HaveLen(2))

			both := filter.All(filter.Equal("Entrada", recordKind), filter.Text("luis", recordName))
			Expect(filter.Apply(items, both)).To(HaveLen(1))

			Expect(filter.All[record]()).To(BeNil())
			Expect(filter.Count(either, nil, both)).To(Equal(2))
		})

		It("honours When", func() {
			Expect(filter.When(false, filter.Equal("Salida", recordKind))).To(BeNil())
			Expect(filter.When(true, filter.Equal("Salida", recordKind))).NotTo(BeNil())
		})
	})

	Describe("dates", func() {
		It("evaluates presets against the clock", func() {
			clock := calendar.FixedClock(time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC))
			Expect(filter.Apply(items, filter.DatePreset(clock, calendar.PresetToday, recordDay))).To(HaveLen(1))
			Expect(filter.Apply(items, filter.DatePreset(clock, calendar.PresetThisWeek, recordDay))).To(HaveLen(1))
			Expect(filter.Apply(items, filter.DatePreset(clock, calendar.PresetThisMonth, recordDay))).To(HaveLen(2))

			// A later clock gives a different answer for the same preset.
			later := calendar.FixedClock(time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC))
			Expect(filter.Apply(items, filter.DatePreset(later, calendar.PresetThisMonth, recordDay))).To(BeEmpty())
		})

		It("filters inclusive ranges with open bounds", func() {
			from := calendar.MustParseDate("2024-03-01")
			Expect(filter.Apply(items, filter.DateRange(from, calendar.Date{}, recordDay))).To(HaveLen(2))
			Expect(filter.Apply(items, filter.DateRange(from, from, recordDay))).To(HaveLen(1))
			Expect(filter.DateRange(calendar.Date{}, calendar.Date{}, recordDay)).To(BeNil())
		})
	})

	Describe("SortByIDDesc", func() {
		It("orders most recent first without touching the input", func() {
			out := filter.SortByIDDesc(items, recordID)
			Expect([]int64{out[0].ID, out[1].ID, out[2].ID}).To(Equal([]int64{3, 2, 1}))
			Expect(items[1].ID).To(Equal(int64(1)))
		})
	})
})

var _ = Describe("Paginate", func() {
	nums := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	It("defaults to five per page", func() {
		p := filter.Paginate(nums, 1, 0)
		Expect(p.Items).To(Equal([]int{1, 2, 3, 4, 5}))
		Expect(p.TotalPages).To(Equal(3))
		Expect(p.HasNext()).To(BeTrue())
	})

	It("returns the partial last page", func() {
		p := filter.Paginate(nums, 3, 5)
		Expect(p.Items).To(Equal([]int{11, 12}))
		Expect(p.HasNext()).To(BeFalse())
	})

	It("clamps out of range pages", func() {
		Expect(filter.Paginate(nums, 9, 5).Page).To(Equal(3))
		Expect(filter.Paginate(nums, -1, 5).Page).To(Equal(1))
	})

	It("treats an empty collection as one empty page", func() {
		p := filter.Paginate([]int{}, 2, 5)
		Expect(p.Items).To(BeEmpty())
		Expect(p.Page).To(Equal(1))
		Expect(p.TotalPages).To(Equal(1))
	})
})
