package alloc

import "testing"

func BenchmarkAllocFreePage(b *testing.B) {
	a, err := NewWithSource(16*HugepageSize, 0, newHeapSource(0))
	if err != nil {
		b.Fatal(err)
	}
	defer a.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page := a.AllocPage()
		if page == nil {
			b.Fatal("unexpected exhaustion")
		}
		a.FreePage(page)
	}
}

func BenchmarkAllocPage_ColdCarve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		a, err := NewWithSource(HugepageSize, 0, newHeapSource(HugepageSize))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		for j := 0; j < pagesPerHugepage; j++ {
			if a.AllocPage() == nil {
				b.Fatal("unexpected exhaustion")
			}
		}

		b.StopTimer()
		a.Close()
		b.StartTimer()
	}
}
