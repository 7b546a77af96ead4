package bible

// baselineTerms are book names speech recognition reliably mangles. They are
// always offered to the recognizer regardless of which books were detected.
var baselineTerms = []string{
	"Habakkuk", "Zephaniah", "Haggai", "Philemon", "Ecclesiastes",
	"Nahum", "Obadiah", "Zechariah", "Malachi", "Titus",
}

// bookVocabulary maps canonical book names to the proper nouns and
// theological terms a sermon on that book is likely to use.
var bookVocabulary = map[string][]string{
	"Genesis":         {"Abram", "Abraham", "Sarai", "Sarah", "Isaac", "Rebekah", "Jacob", "Esau", "Melchizedek", "covenant"},
	"Exodus":          {"Moses", "Aaron", "Pharaoh", "Passover", "Sinai", "tabernacle", "manna"},
	"Leviticus":       {"atonement", "Aaron", "holiness", "offering", "priesthood"},
	"Numbers":         {"Balaam", "Caleb", "wilderness", "Midian"},
	"Deuteronomy":     {"Shema", "Moab", "Horeb", "covenant"},
	"Joshua":          {"Jericho", "Rahab", "Gilgal", "Canaan", "Achan"},
	"Judges":          {"Deborah", "Gideon", "Samson", "Delilah", "Barak", "Jephthah"},
	"Ruth":            {"Naomi", "Boaz", "kinsman-redeemer", "Moabite"},
	"1 Samuel":        {"Hannah", "Eli", "Saul", "Goliath", "Jonathan"},
	"2 Samuel":        {"Bathsheba", "Absalom", "Nathan", "Mephibosheth"},
	"1 Kings":         {"Solomon", "Elijah", "Jeroboam", "Rehoboam", "Ahab", "Jezebel"},
	"2 Kings":         {"Elisha", "Hezekiah", "Josiah", "Sennacherib", "Nebuchadnezzar"},
	"Ezra":            {"Zerubbabel", "Artaxerxes", "Cyrus"},
	"Nehemiah":        {"Sanballat", "Tobiah", "Artaxerxes"},
	"Esther":          {"Mordecai", "Haman", "Ahasuerus", "Purim"},
	"Job":             {"Eliphaz", "Bildad", "Zophar", "Elihu", "Uz"},
	"Psalms":          {"Selah", "Zion", "maskil", "Asaph", "Korah"},
	"Proverbs":        {"wisdom", "Agur", "Lemuel"},
	"Ecclesiastes":    {"Qoheleth", "vanity", "hevel"},
	"Song of Solomon": {"Shulammite", "beloved"},
	"Isaiah":          {"Immanuel", "Hezekiah", "seraphim", "Cyrus", "remnant"},
	"Jeremiah":        {"Baruch", "Babylon", "Rechabites", "Zedekiah"},
	"Lamentations":    {"Zion", "Jerusalem"},
	"Ezekiel":         {"cherubim", "Gog", "Magog", "Chebar"},
	"Daniel":          {"Shadrach", "Meshach", "Abednego", "Belshazzar", "Darius", "Nebuchadnezzar"},
	"Hosea":           {"Gomer", "Jezreel", "Lo-Ammi"},
	"Joel":            {"Pentecost", "locust"},
	"Amos":            {"Tekoa", "plumb line", "Amaziah"},
	"Obadiah":         {"Edom", "Esau"},
	"Jonah":           {"Nineveh", "Tarshish", "Joppa"},
	"Micah":           {"Bethlehem", "Moresheth"},
	"Nahum":           {"Nineveh", "Assyria"},
	"Habakkuk":        {"Chaldeans", "Shigionoth"},
	"Zephaniah":       {"Cushi", "day of the LORD"},
	"Haggai":          {"Zerubbabel", "Darius"},
	"Zechariah":       {"Zerubbabel", "Joshua", "lampstand"},
	"Malachi":         {"tithe", "refiner"},
	"Matthew":         {"Beatitudes", "Emmanuel", "Magi", "Gethsemane"},
	"Mark":            {"Capernaum", "Bartimaeus", "Gethsemane"},
	"Luke":            {"Zacchaeus", "Theophilus", "Emmaus", "Magnificat"},
	"John":            {"Nicodemus", "Lazarus", "Bethesda", "Logos", "Paraclete"},
	"Acts":            {"Pentecost", "Barnabas", "Silas", "Areopagus", "Agrippa"},
	"Romans":          {"justification", "propitiation", "sanctification", "Phoebe"},
	"1 Corinthians":   {"Apollos", "Chloe", "resurrection"},
	"2 Corinthians":   {"Titus", "Macedonia", "thorn in the flesh"},
	"Galatians":       {"Judaizers", "circumcision", "Cephas"},
	"Ephesians":       {"predestination", "Tychicus", "armor of God"},
	"Philippians":     {"Epaphroditus", "kenosis", "Euodia", "Syntyche"},
	"Colossians":      {"Epaphras", "Onesimus", "preeminence"},
	"1 Thessalonians": {"Thessalonica", "parousia"},
	"2 Thessalonians": {"man of lawlessness"},
	"1 Timothy":       {"Ephesus", "overseer", "deacon"},
	"2 Timothy":       {"Eunice", "Lois", "Onesiphorus"},
	"Titus":           {"Crete", "Cretans", "Artemas"},
	"Philemon":        {"Onesimus", "Apphia", "Archippus"},
	"Hebrews":         {"Melchizedek", "propitiation", "high priest"},
	"James":           {"perseverance", "doers of the word"},
	"1 Peter":         {"sojourner", "Silvanus"},
	"2 Peter":         {"Balaam", "false teachers"},
	"1 John":          {"propitiation", "antichrist"},
	"2 John":          {"elect lady"},
	"3 John":          {"Gaius", "Diotrephes", "Demetrius"},
	"Jude":            {"Enoch", "Michael", "Korah"},
	"Revelation":      {"Patmos", "Laodicea", "Armageddon", "alpha and omega", "New Jerusalem"},
}

// TermsForBook returns the vocabulary registered for a canonical book name.
func TermsForBook(book string) []string {
	return bookVocabulary[book]
}
